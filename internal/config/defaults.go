// Package config provides default configuration values shared across the
// cortex CLI packages. This centralizes the names of environment variables,
// file locations and fallback values.
package config

import "time"

const (
	// DefaultProfileName is used when configure runs without --profile
	DefaultProfileName = "default"

	// DefaultLogLevel keeps CLI output quiet unless asked otherwise
	DefaultLogLevel = "ERROR"

	// DefaultTimeout is the per-request timeout for API calls
	DefaultTimeout = 30 * time.Second

	// DefaultRetryCount is how many times a request is retried after a
	// connection error. HTTP error responses are never retried.
	DefaultRetryCount = 2

	// DefaultColor is the --color default for every command
	DefaultColor = "on"

	// DefaultCompatPolicy decides what an incompatible API version does:
	// "error" stops the command, "warn" only logs.
	DefaultCompatPolicy = "error"

	// ConfigDirName is the directory under the user's home holding the profile file
	ConfigDirName = ".cortex"

	// ConfigFileName is the profile file inside the config directory
	ConfigFileName = "config"

	// EnvConfigDir overrides the config directory location
	EnvConfigDir = "CORTEX_CONFIG_DIR"

	// EnvCompatPolicy overrides the compatibility policy
	EnvCompatPolicy = "CORTEX_COMPAT_POLICY"

	// EnvDebug enables debug logging when set to "true"
	EnvDebug = "DEBUG"
)
