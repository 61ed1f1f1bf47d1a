// Package config provides the parsed-invocation model for the cortex CLI.
//
// The dispatcher turns cobra's parsed state into exactly one Invocation per
// process. Handlers receive it by pointer and only read from it; nothing in
// this package is global mutable state.
package config

import (
	"sort"

	"github.com/cognitivescale/cortex-cli/internal/version"
)

// Version returns the current cortex CLI version from the centralized version package
var Version = version.CortexCLIVersion

// Flag names shared by the command table and the handlers.
const (
	FlagColor    = "color"
	FlagProfile  = "profile"
	FlagJSON     = "json"
	FlagQuery    = "query"
	FlagNoCompat = "no-compat"
	FlagMessage  = "message"

	FlagURL      = "url"
	FlagAccount  = "account"
	FlagUsername = "username"
	FlagPassword = "password"

	FlagLogLevel = "log-level"
	FlagTimeout  = "timeout"
)

// Options is the read-only flag bag of an invocation. Values are strings or
// bools; flags the user did not pass hold their declared default.
type Options struct {
	values map[string]any
	set    map[string]bool
}

// NewOptions builds an Options bag. set lists the flags given explicitly on
// the command line.
func NewOptions(values map[string]any, set []string) Options {
	o := Options{
		values: make(map[string]any, len(values)),
		set:    make(map[string]bool, len(set)),
	}
	for k, v := range values {
		o.values[k] = v
	}
	for _, name := range set {
		o.set[name] = true
	}
	return o
}

// String returns a string flag, or "" when the flag is unknown or not a string.
func (o Options) String(name string) string {
	s, _ := o.values[name].(string)
	return s
}

// Bool returns a boolean flag, or false when the flag is unknown or not a bool.
func (o Options) Bool(name string) bool {
	b, _ := o.values[name].(bool)
	return b
}

// Has reports whether the flag is declared for the command.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Changed reports whether the flag was given explicitly.
func (o Options) Changed(name string) bool {
	return o.set[name]
}

// Names returns the declared flag names in sorted order.
func (o Options) Names() []string {
	names := make([]string, 0, len(o.values))
	for name := range o.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorEnabled reports whether colored output was requested.
func (o Options) ColorEnabled() bool {
	return o.String(FlagColor) != ColorOff
}

// Invocation is one parsed command line.
type Invocation struct {
	// Command is the full command path, e.g. "tasks list".
	Command string
	// Args holds positional arguments by parameter name.
	Args    map[string]string
	Options Options
}

// Arg returns the named positional argument.
func (inv *Invocation) Arg(name string) string {
	return inv.Args[name]
}

// Global holds the root persistent flags.
type Global struct {
	LogLevel string
	Timeout  int
}
