// Package logging provides structured, colorful logging for the cortex CLI.
//
// All diagnostics go to stderr through a single charmbracelet/log logger so
// that stdout only ever carries command output. That matters for --json,
// where stdout is piped into other tools and must stay parseable.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Level filtering via SetLevel, quiet-by-default CLI mode via SuppressOutput
//   - Writer adapters for libraries that expect an io.Writer (gin, stdlib log)
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for all levels, stderr by default
	logger = newLogger(os.Stderr)

	// Current output destination, used by Success to build its styled logger
	currentOutput io.Writer = os.Stderr

	// Whether log lines carry a timestamp
	reportTimestamp = true
)

// Level colors, chosen to stay readable on light and dark terminals.
var levelColors = map[log.Level]struct{ label, color string }{
	log.DebugLevel: {"DEBUG", "#7F6DFF"},
	log.InfoLevel:  {"INFO", "#42E7FF"},
	log.WarnLevel:  {"WARN", "#FFE763"},
	log.ErrorLevel: {"ERROR", "#FF4473"},
}

const successColor = "#60F281"

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().SetString(label).Foreground(lipgloss.Color(color))
}

// setupCustomStyles returns the charmbracelet styles with cortex level colors.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level, c := range levelColors {
		styles.Levels[level] = levelStyle(c.label, c.color)
	}
	return styles
}

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: reportTimestamp,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// Info logs informational messages about command progress.
func Info(format string, v ...any) {
	logger.Info(fmt.Sprintf(format, v...))
}

// Warn logs non-fatal conditions the user should know about.
func Warn(format string, v ...any) {
	logger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures.
func Error(format string, v ...any) {
	logger.Error(fmt.Sprintf(format, v...))
}

// Debug logs request/response detail for troubleshooting.
func Debug(format string, v ...any) {
	logger.Debug(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom
// styling, so it is filtered exactly like Info.
func Success(format string, v ...any) {
	if logger.GetLevel() > log.InfoLevel {
		return
	}

	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = levelStyle("SUCCESS", successColor)

	tempLogger := log.NewWithOptions(currentOutput, log.Options{
		ReportTimestamp: reportTimestamp,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// parseLevel maps a level string to a charmbracelet level, defaulting to INFO.
func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "INFO":
		return log.InfoLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel configures the minimum level (DEBUG, INFO, WARN, ERROR).
// Unknown strings fall back to INFO.
func SetLevel(level string) {
	logger.SetLevel(parseLevel(level))
}

// SetOutput redirects all log output to w, keeping the current level.
// A nil writer suppresses all output.
func SetOutput(w io.Writer) {
	if w == nil {
		logger.SetLevel(log.FatalLevel + 1)
		return
	}

	level := logger.GetLevel()
	logger = newLogger(w)
	logger.SetLevel(level)
	currentOutput = w
}

// SetReportTimestamp toggles timestamps; tests turn them off for stable output.
func SetReportTimestamp(enabled bool) {
	reportTimestamp = enabled
	logger.SetReportTimestamp(enabled)
}

// SuppressOutput keeps only ERROR logs visible. This is the CLI default so
// normal command output is not interleaved with progress messages.
func SuppressOutput() {
	logger.SetLevel(log.ErrorLevel)
}

// RestoreOutput recreates the stderr logger at INFO level.
func RestoreOutput() {
	logger = newLogger(os.Stderr)
	logger.SetLevel(log.InfoLevel)
	currentOutput = os.Stderr
}

// LevelWriter forwards log lines to a specific log level with optional prefix.
// Useful for integrating third-party libraries that expect io.Writer interfaces.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write splits input into lines and logs each non-empty line at the
// configured level.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger output to the provided writer.
// Passing nil discards standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
