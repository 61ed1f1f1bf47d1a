// Package utils provides utility functions for the cortex CLI.
// This file contains logging setup and Resty logger integration utilities.
package utils

import (
	"os"
	"strings"

	"github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/logging"
)

// RestyLogger implements resty.Logger interface and routes logs through structured logging
type RestyLogger struct{}

// Errorf routes error messages through structured logging.
func (s RestyLogger) Errorf(format string, v ...any) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (s RestyLogger) Warnf(format string, v ...any) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (s RestyLogger) Debugf(format string, v ...any) {
	logging.Debug(format, v...)
}

// SetupLogging configures CLI logging from --log-level. DEBUG=true in the
// environment overrides the flag and enables full debug output.
func SetupLogging(level string) {
	// Libraries that use the standard logger only show up in debug output
	logging.RedirectStandardLog(logging.NewLevelWriter("DEBUG", "lib"))

	if os.Getenv(config.EnvDebug) == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	// Start from the quiet CLI default, then apply the requested level
	logging.SuppressOutput()
	logging.SetLevel(strings.ToUpper(level))
}
