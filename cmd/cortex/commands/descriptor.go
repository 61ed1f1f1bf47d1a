// Package commands contains the cortex command table and its dispatcher.
//
// The whole CLI surface is one static table of Descriptors. Build turns the
// table into a cobra tree once at startup, and every runnable node routes
// through the same dispatch routine: parse flags into an Invocation, validate
// them, run the compatibility check when the command asks for it, execute
// the handler and print any error it returns.
//
// COMMAND STRUCTURE:
//   - configure: create or update a profile (runs when no subcommand is given)
//   - configure list / describe / set-profile: inspect and switch profiles
//   - tasks list / logs / cancel / describe: task operations for a job
package commands

import (
	"strings"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/handlers"
)

// Option declares one command flag.
type Option struct {
	Name      string
	Shorthand string
	Usage     string
	// Default is the value of a string flag that was not passed.
	Default string
	// Bool marks a boolean switch; Default is ignored for it.
	Bool bool
}

// Descriptor declares one node of the command tree.
type Descriptor struct {
	// Name is the word typed on the command line.
	Name string
	// Params names the required positional arguments in order.
	Params []string

	Short   string
	Long    string
	Example string

	Options []Option

	// Compat wraps the handler with the CLI/API compatibility check.
	Compat bool

	// New builds the handler. Nil for pure command groups.
	New func(env *handlers.Env) handlers.Command

	Children []Descriptor
}

// Use returns the cobra usage line, e.g. "logs <jobId> <taskId>".
func (d Descriptor) Use() string {
	parts := []string{d.Name}
	for _, p := range d.Params {
		parts = append(parts, "<"+p+">")
	}
	return strings.Join(parts, " ")
}

// Shared flag declarations.
var (
	colorOption = Option{
		Name:    config.FlagColor,
		Usage:   "Colorize output: on, off",
		Default: config.ColorOn,
	}
	profileOption = Option{
		Name:  config.FlagProfile,
		Usage: "Profile to use (defaults to the current profile)",
	}
	jsonOption = Option{
		Name:  config.FlagJSON,
		Usage: "Output JSON",
		Bool:  true,
	}
	queryOption = Option{
		Name:  config.FlagQuery,
		Usage: "JMESPath expression applied to the JSON output (requires --json)",
	}
	noCompatOption = Option{
		Name:  config.FlagNoCompat,
		Usage: "Skip the CLI/API compatibility check",
		Bool:  true,
	}
	messageOption = Option{
		Name:      config.FlagMessage,
		Shorthand: "m",
		Usage:     "Reason for the cancellation, sent to the API as given",
	}
)

// Table returns the cortex command tree.
func Table() []Descriptor {
	taskOptions := []Option{noCompatOption, colorOption, profileOption, jsonOption, queryOption}

	return []Descriptor{
		{
			Name:  "configure",
			Short: "Configure connection profiles",
			Long: `Create or update a connection profile.

Values not given as flags are prompted for, defaulting to the profile's
current values. The password is exchanged for an access token and is never
written to disk. The first profile configured becomes the current profile.`,
			Example: `  # Configure the default profile interactively
  cortex configure

  # Configure a named profile without prompts
  cortex configure --profile staging --url https://api.example.com \
    --account acme --username jdoe --password "$CORTEX_PASSWORD"`,
			Options: []Option{
				{Name: config.FlagProfile, Usage: "Profile to configure (default \"default\")"},
				{Name: config.FlagURL, Usage: "Cortex API URL"},
				{Name: config.FlagAccount, Usage: "Cortex account"},
				{Name: config.FlagUsername, Usage: "Cortex username"},
				{Name: config.FlagPassword, Usage: "Cortex password (prompted when omitted)"},
				colorOption,
			},
			New: func(env *handlers.Env) handlers.Command { return handlers.NewConfigureCommand(env) },
			Children: []Descriptor{
				{
					Name:    "list",
					Short:   "List configured profiles",
					Options: []Option{colorOption},
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewListProfilesCommand(env) },
				},
				{
					Name:    "describe",
					Params:  []string{handlers.ParamProfileName},
					Short:   "Show a profile",
					Long:    "Show the settings of a profile. Credentials are never printed.",
					Example: "  cortex configure describe default",
					Options: []Option{colorOption},
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewDescribeProfileCommand(env) },
				},
				{
					Name:    "set-profile",
					Params:  []string{handlers.ParamProfileName},
					Short:   "Set the current profile",
					Example: "  cortex configure set-profile staging",
					Options: []Option{colorOption},
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewSetProfileCommand(env) },
				},
			},
		},
		{
			Name:  "tasks",
			Short: "Inspect and cancel job tasks",
			Long:  "Commands for listing, inspecting and cancelling the tasks of a Cortex job.",
			Children: []Descriptor{
				{
					Name:   "list",
					Params: []string{handlers.ParamJobID},
					Short:  "List the tasks of a job",
					Example: `  cortex tasks list job-1
  cortex tasks list job-1 --json --query "[?status=='FAILED'].id"`,
					Options: taskOptions,
					Compat:  true,
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewListTasks(env) },
				},
				{
					Name:    "logs",
					Params:  []string{handlers.ParamJobID, handlers.ParamTaskID},
					Short:   "Show the logs of a task",
					Example: "  cortex tasks logs job-1 t3",
					Options: taskOptions,
					Compat:  true,
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewTaskLogs(env) },
				},
				{
					Name:    "cancel",
					Params:  []string{handlers.ParamJobID, handlers.ParamTaskID},
					Short:   "Cancel a task",
					Example: `  cortex tasks cancel job-1 t2 -m "superseded by job-2"`,
					Options: []Option{noCompatOption, colorOption, profileOption, jsonOption, messageOption},
					Compat:  true,
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewCancelTask(env) },
				},
				{
					Name:    "describe",
					Params:  []string{handlers.ParamJobID, handlers.ParamTaskID},
					Short:   "Show the details of a task",
					Example: "  cortex tasks describe job-1 t1 --json",
					Options: taskOptions,
					Compat:  true,
					New:     func(env *handlers.Env) handlers.Command { return handlers.NewDescribeTask(env) },
				},
			},
		},
	}
}
