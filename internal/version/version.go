// Package version provides the cortex CLI version.
//
// The value is compared against the API's advertised compatibility range
// before task commands run, so it must stay a valid semantic version.
// Format: major.minor.patch[-prerelease][+build]
package version

// CortexCLIVersion holds the current cortex CLI version.
const CortexCLIVersion = "1.4.0"

// ApplicationName is the name the CLI uses when asking the API which
// versions it accepts.
const ApplicationName = "cortex-cli"
