// Package display provides output formatting and display functions for the
// cortex CLI.
//
// A Formatter renders a command's result either as JSON (optionally reduced
// by a JMESPath --query and highlighted with chroma) or as a human-readable
// view built with text/tabwriter. Command output goes to Out; error messages
// go to Err in red. Whether color is used is decided once per invocation by
// the --color flag.
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/client"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/utils"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/cognitivescale/cortex-cli/internal/profile"
	"github.com/cognitivescale/cortex-cli/internal/query"
	"gopkg.in/yaml.v3"
)

const (
	chromaFormatter = "terminal256"
	chromaStyle     = "monokai"

	messageWidth = 48
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60F281"))
)

// Formatter writes command output.
type Formatter struct {
	Out   io.Writer
	Err   io.Writer
	Color bool
}

// New creates a formatter writing results to out and errors to errOut.
func New(out, errOut io.Writer, color bool) *Formatter {
	return &Formatter{Out: out, Err: errOut, Color: color}
}

// JSON applies expression (when non-empty) to payload and writes the result
// as indented JSON. An invalid or failing expression is a query error and
// nothing is written.
func (f *Formatter) JSON(payload any, expression string) error {
	result, err := query.Apply(payload, expression)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errdefs.Internal("failed to encode JSON output: %w", err)
	}
	return f.highlight(string(data)+"\n", "json")
}

// YAML writes payload as YAML.
func (f *Formatter) YAML(payload any) error {
	data, err := yaml.Marshal(payload)
	if err != nil {
		return errdefs.Internal("failed to encode YAML output: %w", err)
	}
	return f.highlight(string(data), "yaml")
}

// highlight writes src, colorized for lexer when color is on. A highlighting
// failure falls back to plain output.
func (f *Formatter) highlight(src, lexer string) error {
	if f.Color {
		var buf bytes.Buffer
		err := quick.Highlight(&buf, src, lexer, chromaFormatter, chromaStyle)
		if err == nil {
			_, err = io.Copy(f.Out, &buf)
			return err
		}
		logging.Debug("Highlighting %s output failed: %v", lexer, err)
	}
	_, err := io.WriteString(f.Out, src)
	return err
}

// Error prints err's message to the error stream, in red when color is on.
func (f *Formatter) Error(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if f.Color {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(f.Err, msg)
}

// Message prints a single line of command output.
func (f *Formatter) Message(format string, args ...any) {
	fmt.Fprintf(f.Out, format+"\n", args...)
}

// table aligns rows under header with tabwriter. The header line is styled
// after alignment so escape codes do not count toward column widths.
func (f *Formatter) table(header []string, rows [][]string) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	out := buf.String()
	if f.Color {
		first, rest, _ := strings.Cut(out, "\n")
		out = headerStyle.Render(first) + "\n" + rest
	}
	io.WriteString(f.Out, out)
}

// Profiles lists profile names, marking the current one with '*'.
func (f *Formatter) Profiles(summaries []profile.Summary) {
	if len(summaries) == 0 {
		f.Message("No profiles configured - run 'cortex configure' to create one")
		return
	}

	for _, s := range summaries {
		if s.Current {
			line := "* " + s.Name
			if f.Color {
				line = currentStyle.Render(line)
			}
			f.Message("%s", line)
			continue
		}
		f.Message("  %s", s.Name)
	}
}

// Tasks prints a task table. Times are rendered relative to now.
func (f *Formatter) Tasks(tasks []client.Task, now time.Time) {
	if len(tasks) == 0 {
		f.Message("No tasks found")
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			task.ID,
			utils.OrDash(task.Name),
			utils.OrDash(task.Status),
			utils.FormatTime(task.StartTime, now),
			utils.FormatTime(task.EndTime, now),
			utils.OrDash(utils.Truncate(task.Message, messageWidth)),
		})
	}
	f.table([]string{"ID", "NAME", "STATUS", "STARTED", "ENDED", "MESSAGE"}, rows)
}

// taskKeyOrder lists the fields shown first in the task detail view.
var taskKeyOrder = []string{"id", "name", "jobId", "status", "message", "actionName", "startTime", "endTime"}

// TaskDetail prints every field of a task document, well-known fields first
// and the rest alphabetically.
func (f *Formatter) TaskDetail(task map[string]any, now time.Time) {
	w := tabwriter.NewWriter(f.Out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	seen := make(map[string]bool, len(task))
	keys := make([]string, 0, len(task))
	for _, k := range taskKeyOrder {
		if _, ok := task[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(task))
	for k := range task {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	for _, k := range keys {
		value := utils.FormatValue(task[k])
		if ts := utils.GetTime(task, k); ts != nil {
			value = fmt.Sprintf("%s (%s)", ts.Format(time.RFC3339), utils.FormatTime(ts, now))
		}
		fmt.Fprintf(w, "%s:\t%s\n", k, value)
	}
}

// TaskLogs prints log lines verbatim.
func (f *Formatter) TaskLogs(logs *client.TaskLogs) {
	if len(logs.Logs) == 0 {
		logging.Info("No logs available for task '%s' in job '%s'", logs.TaskID, logs.JobID)
		return
	}
	for _, line := range logs.Logs {
		fmt.Fprintln(f.Out, line)
	}
}

// CancelResult prints the API's answer to a cancellation request.
func (f *Formatter) CancelResult(jobID, taskID string, resp map[string]any) {
	if msg := utils.GetString(resp, "message"); msg != "" {
		f.Message("%s", msg)
		return
	}
	f.Message("Cancellation of task '%s' in job '%s' requested", taskID, jobID)
}
