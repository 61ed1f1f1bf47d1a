// Package handlers provides the command objects for the cortex CLI.
//
// Each CLI verb is one command type with an Execute method taking the
// parsed Invocation. Commands return errors instead of printing them; the
// dispatcher in the commands package prints the message and sets the exit
// code. All process-level collaborators (output streams, profile store,
// prompts, API client construction, clock) travel in an explicit Env so
// tests can substitute every one of them.
//
// The package is organized as follows:
// - configure.go: profile management (configure, list, describe, set-profile)
// - tasks.go: task operations (list, logs, cancel, describe)
// - prompt.go: interactive input for configure
package handlers

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/client"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/display"
	"github.com/cognitivescale/cortex-cli/internal/compat"
	internalconfig "github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/cognitivescale/cortex-cli/internal/profile"
	"github.com/spf13/afero"
)

// API is the subset of the Cortex REST API the commands use.
type API interface {
	Authenticate(ctx context.Context, account, username, password string) (string, error)
	ListTasks(ctx context.Context, jobID string) ([]map[string]any, error)
	GetTask(ctx context.Context, jobID, taskID string) (map[string]any, error)
	GetTaskLogs(ctx context.Context, jobID, taskID string) (*client.TaskLogs, error)
	CancelTask(ctx context.Context, jobID, taskID, message string) (map[string]any, error)
	GetCompatibility(ctx context.Context) (*compat.Compatibility, error)
}

// Command is one executable CLI verb.
type Command interface {
	Execute(ctx context.Context, inv *config.Invocation) error
}

// Session is an API client bound to the profile it was resolved from.
type Session struct {
	API     API
	File    *profile.File
	Profile *profile.Profile
}

// RemoteFunc runs a command with an already resolved session.
type RemoteFunc func(ctx context.Context, inv *config.Invocation, s *Session) error

// RemoteCommand is a command that talks to the API. Run lets the dispatcher
// share one session between the compatibility guard and the command.
type RemoteCommand interface {
	Command
	Run(ctx context.Context, inv *config.Invocation, s *Session) error
}

// Env carries everything a command needs from the outside world.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	Store    *profile.Store
	Prompter Prompter

	// NewClient builds an API client for a base URL and token.
	NewClient func(baseURL, token string) API

	// Timeout bounds each API request made by clients from NewEnv.
	Timeout time.Duration

	// Now is the clock used for token expiry and relative times.
	Now func() time.Time
}

// NewEnv creates the production environment: real streams, the profile file
// under the default config directory and terminal prompts.
func NewEnv() (*Env, error) {
	dir, err := profile.DefaultDir()
	if err != nil {
		return nil, err
	}

	env := &Env{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Store:    profile.NewStore(afero.NewOsFs(), dir),
		Prompter: NewTerminalPrompter(os.Stdin, os.Stderr),
		Timeout:  internalconfig.DefaultTimeout,
		Now:      time.Now,
	}
	env.NewClient = func(baseURL, token string) API {
		return client.NewCortexClient(client.Options{
			BaseURL:    baseURL,
			Token:      token,
			Timeout:    env.Timeout,
			RetryCount: internalconfig.DefaultRetryCount,
		})
	}
	return env, nil
}

// Formatter returns an output formatter honoring the invocation's --color.
func (e *Env) Formatter(inv *config.Invocation) *display.Formatter {
	return display.New(e.Stdout, e.Stderr, inv.Options.ColorEnabled())
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Connect resolves the invocation's profile and returns a session for it.
// The profile comes from --profile, or the current profile when the flag is
// empty. A stored token whose exp claim has passed is rejected before any
// request is made.
func (e *Env) Connect(inv *config.Invocation) (*Session, error) {
	f, err := e.Store.Load()
	if err != nil {
		return nil, err
	}

	p, err := f.Resolve(inv.Options.String(config.FlagProfile))
	if err != nil {
		return nil, err
	}

	if p.Token == "" {
		return nil, errdefs.Auth("profile '%s' has no token - run 'cortex configure --profile %s'", p.Name, p.Name)
	}
	if p.TokenExpired(e.now()) {
		return nil, errdefs.Auth("the token for profile '%s' has expired - run 'cortex configure --profile %s'", p.Name, p.Name)
	}

	logging.Debug("Using profile '%s' (%s)", p.Name, p.URL)
	return &Session{API: e.NewClient(p.URL, p.Token), File: f, Profile: p}, nil
}

// remote connects and runs fn with the new session.
func (e *Env) remote(ctx context.Context, inv *config.Invocation, fn RemoteFunc) error {
	s, err := e.Connect(inv)
	if err != nil {
		return err
	}
	return fn(ctx, inv, s)
}

// CompatPolicy returns the compatibility policy: CORTEX_COMPAT_POLICY when
// set, then the profile file's compatPolicy, then the default.
func CompatPolicy(f *profile.File) (compat.Policy, error) {
	if v := os.Getenv(internalconfig.EnvCompatPolicy); v != "" {
		return compat.ParsePolicy(v)
	}
	if f != nil && f.CompatPolicy != "" {
		return compat.ParsePolicy(f.CompatPolicy)
	}
	return compat.ParsePolicy(internalconfig.DefaultCompatPolicy)
}

// CheckCompatibility runs the compatibility guard against the session's
// API. It is skipped when --no-compat is set.
func (e *Env) CheckCompatibility(ctx context.Context, inv *config.Invocation, s *Session) error {
	if inv.Options.Bool(config.FlagNoCompat) {
		logging.Debug("Compatibility check disabled by --%s", config.FlagNoCompat)
		return nil
	}

	policy, err := CompatPolicy(s.File)
	if err != nil {
		return err
	}
	return compat.NewGuard(config.Version, policy).Check(ctx, s.API)
}
