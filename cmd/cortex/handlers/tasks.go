package handlers

import (
	"context"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/client"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/display"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/cognitivescale/cortex-cli/internal/validate"
)

// Positional parameter names.
const (
	ParamProfileName = "profileName"
	ParamJobID       = "jobId"
	ParamTaskID      = "taskId"
)

var (
	_ RemoteCommand = (*ListTasks)(nil)
	_ RemoteCommand = (*TaskLogs)(nil)
	_ RemoteCommand = (*CancelTask)(nil)
	_ RemoteCommand = (*DescribeTask)(nil)
)

// taskTarget validates and returns the job and task IDs of an invocation.
// needTask is false for commands that address a whole job.
func taskTarget(inv *config.Invocation, needTask bool) (string, string, error) {
	jobID := inv.Arg(ParamJobID)
	if err := validate.IdentifierFormat("job ID", jobID); err != nil {
		return "", "", errdefs.Usage("%v", err)
	}
	if !needTask {
		return jobID, "", nil
	}

	taskID := inv.Arg(ParamTaskID)
	if err := validate.IdentifierFormat("task ID", taskID); err != nil {
		return "", "", errdefs.Usage("%v", err)
	}
	return jobID, taskID, nil
}

// output prints payload as JSON when --json is set and reports whether it
// did. --query without --json is ignored with a warning.
func output(f *display.Formatter, inv *config.Invocation, payload any) (bool, error) {
	expression := inv.Options.String(config.FlagQuery)
	if !inv.Options.Bool(config.FlagJSON) {
		if expression != "" {
			logging.Warn("Ignoring --%s because output format is not JSON (add --%s)", config.FlagQuery, config.FlagJSON)
		}
		return false, nil
	}
	return true, f.JSON(payload, expression)
}

// ListTasks lists the tasks of a job.
type ListTasks struct {
	env *Env
}

// NewListTasks creates the tasks list command.
func NewListTasks(env *Env) *ListTasks {
	return &ListTasks{env: env}
}

// Execute connects with the invocation's profile and calls Run.
func (c *ListTasks) Execute(ctx context.Context, inv *config.Invocation) error {
	return c.env.remote(ctx, inv, c.Run)
}

// Run prints the job's tasks as a table or JSON.
func (c *ListTasks) Run(ctx context.Context, inv *config.Invocation, s *Session) error {
	jobID, _, err := taskTarget(inv, false)
	if err != nil {
		return err
	}

	logging.Info("Fetching tasks for job '%s'", jobID)
	tasks, err := s.API.ListTasks(ctx, jobID)
	if err != nil {
		return err
	}

	f := c.env.Formatter(inv)
	if done, err := output(f, inv, tasks); done || err != nil {
		return err
	}
	f.Tasks(client.TasksFromDocuments(tasks), c.env.now())
	logging.Success("Retrieved %d tasks for job '%s'", len(tasks), jobID)
	return nil
}

// TaskLogs prints the logs of one task.
type TaskLogs struct {
	env *Env
}

// NewTaskLogs creates the tasks logs command.
func NewTaskLogs(env *Env) *TaskLogs {
	return &TaskLogs{env: env}
}

// Execute connects with the invocation's profile and calls Run.
func (c *TaskLogs) Execute(ctx context.Context, inv *config.Invocation) error {
	return c.env.remote(ctx, inv, c.Run)
}

// Run prints the task's log lines, or {jobId, taskId, logs} as JSON.
func (c *TaskLogs) Run(ctx context.Context, inv *config.Invocation, s *Session) error {
	jobID, taskID, err := taskTarget(inv, true)
	if err != nil {
		return err
	}

	logs, err := s.API.GetTaskLogs(ctx, jobID, taskID)
	if err != nil {
		return err
	}

	f := c.env.Formatter(inv)
	if done, err := output(f, inv, logs); done || err != nil {
		return err
	}
	f.TaskLogs(logs)
	return nil
}

// CancelTask requests cancellation of one task. Whatever the API answers,
// success or refusal, is passed through unchanged.
type CancelTask struct {
	env *Env
}

// NewCancelTask creates the tasks cancel command.
func NewCancelTask(env *Env) *CancelTask {
	return &CancelTask{env: env}
}

// Execute connects with the invocation's profile and calls Run.
func (c *CancelTask) Execute(ctx context.Context, inv *config.Invocation) error {
	return c.env.remote(ctx, inv, c.Run)
}

// Run sends the cancellation with the exact -m/--message text.
func (c *CancelTask) Run(ctx context.Context, inv *config.Invocation, s *Session) error {
	jobID, taskID, err := taskTarget(inv, true)
	if err != nil {
		return err
	}

	logging.Info("Cancelling task '%s' in job '%s'", taskID, jobID)
	resp, err := s.API.CancelTask(ctx, jobID, taskID, inv.Options.String(config.FlagMessage))
	if err != nil {
		return err
	}

	f := c.env.Formatter(inv)
	if done, err := output(f, inv, resp); done || err != nil {
		return err
	}
	f.CancelResult(jobID, taskID, resp)
	return nil
}

// DescribeTask prints the full document of one task.
type DescribeTask struct {
	env *Env
}

// NewDescribeTask creates the tasks describe command.
func NewDescribeTask(env *Env) *DescribeTask {
	return &DescribeTask{env: env}
}

// Execute connects with the invocation's profile and calls Run.
func (c *DescribeTask) Execute(ctx context.Context, inv *config.Invocation) error {
	return c.env.remote(ctx, inv, c.Run)
}

// Run prints the task as a key/value view or JSON.
func (c *DescribeTask) Run(ctx context.Context, inv *config.Invocation, s *Session) error {
	jobID, taskID, err := taskTarget(inv, true)
	if err != nil {
		return err
	}

	task, err := s.API.GetTask(ctx, jobID, taskID)
	if err != nil {
		return err
	}

	f := c.env.Formatter(inv)
	if done, err := output(f, inv, task); done || err != nil {
		return err
	}
	f.TaskDetail(task, c.env.now())
	return nil
}
