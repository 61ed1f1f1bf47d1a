package handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/client"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/internal/apitest"
	"github.com/cognitivescale/cortex-cli/internal/compat"
	internalconfig "github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/profile"
	"github.com/spf13/afero"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	*Env
	srv    *apitest.Server
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(internalconfig.EnvCompatPolicy, "")

	srv := apitest.New(t)
	fs := afero.NewMemMapFs()
	var stdout, stderr bytes.Buffer

	env := &Env{
		Stdout: &stdout,
		Stderr: &stderr,
		Store:  profile.NewStore(fs, "/home/test/.cortex"),
		NewClient: func(baseURL, token string) API {
			return client.NewCortexClient(client.Options{BaseURL: baseURL, Token: token, Timeout: 5 * time.Second})
		},
		Now: func() time.Time { return testNow },
	}
	return &testEnv{Env: env, srv: srv, fs: fs, stdout: &stdout, stderr: &stderr}
}

// seed stores profiles pointing at the fake API, the first one current.
func (te *testEnv) seed(t *testing.T, names ...string) {
	t.Helper()
	f, err := te.Store.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		f.Put(&profile.Profile{
			Name:     name,
			URL:      te.srv.URL,
			Account:  apitest.Account,
			Username: apitest.Username,
			Token:    te.srv.Token(),
		})
	}
	if err := te.Store.Save(f); err != nil {
		t.Fatal(err)
	}
}

func (te *testEnv) file(t *testing.T) *profile.File {
	t.Helper()
	f, err := te.Store.Load()
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// checkCompatibility resolves a session the way the dispatcher does and runs
// the guard with it.
func (te *testEnv) checkCompatibility(inv *config.Invocation) error {
	s, err := te.Connect(inv)
	if err != nil {
		return err
	}
	return te.CheckCompatibility(context.Background(), inv, s)
}

func invocation(command string, args map[string]string, opts map[string]any) *config.Invocation {
	values := map[string]any{config.FlagColor: config.ColorOff}
	for k, v := range opts {
		values[k] = v
	}
	return &config.Invocation{Command: command, Args: args, Options: config.NewOptions(values, nil)}
}

func taskArgs(taskID string) map[string]string {
	args := map[string]string{ParamJobID: apitest.JobID}
	if taskID != "" {
		args[ParamTaskID] = taskID
	}
	return args
}

type fakePrompter struct {
	answers  map[string]string
	password string
	asked    []string
}

func (p *fakePrompter) Prompt(label, defaultValue string) (string, error) {
	p.asked = append(p.asked, label)
	if v, ok := p.answers[label]; ok && v != "" {
		return v, nil
	}
	return defaultValue, nil
}

func (p *fakePrompter) Password(label string) (string, error) {
	p.asked = append(p.asked, label)
	return p.password, nil
}

// TestConfigureWithFlags tests non-interactive profile creation
func TestConfigureWithFlags(t *testing.T) {
	te := newTestEnv(t)

	inv := invocation("configure", nil, map[string]any{
		config.FlagURL:      te.srv.URL,
		config.FlagAccount:  apitest.Account,
		config.FlagUsername: apitest.Username,
		config.FlagPassword: apitest.Password,
	})
	if err := NewConfigureCommand(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	f := te.file(t)
	p, err := f.Get(internalconfig.DefaultProfileName)
	if err != nil {
		t.Fatalf("profile not saved: %v", err)
	}
	if f.CurrentProfile != internalconfig.DefaultProfileName {
		t.Errorf("CurrentProfile = %q, want first profile to be current", f.CurrentProfile)
	}
	if p.Token != te.srv.Token() {
		t.Error("token not stored")
	}

	raw, err := afero.ReadFile(te.fs, te.Store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), apitest.Password) {
		t.Error("password persisted to the profile file")
	}
	if !strings.Contains(te.stdout.String(), "profile 'default' saved") {
		t.Errorf("stdout = %q", te.stdout.String())
	}
}

// TestConfigureInteractive tests prompting and existing-value defaults
func TestConfigureInteractive(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "default")

	// Reconfiguring keeps every existing value the user accepts with Enter
	prompter := &fakePrompter{password: apitest.Password}
	te.Prompter = prompter
	if err := NewConfigureCommand(te.Env).Execute(context.Background(), invocation("configure", nil, nil)); err != nil {
		t.Fatalf("Execute(default) error = %v", err)
	}
	want := "Cortex URL,Account,Username,Password"
	if got := strings.Join(prompter.asked, ","); got != want {
		t.Errorf("prompts = %s, want %s", got, want)
	}
	if p, _ := te.file(t).Get("default"); p == nil || p.URL != te.srv.URL || p.Account != apitest.Account {
		t.Errorf("existing values not kept: %+v", p)
	}

	// A flag suppresses its prompt
	prompter = &fakePrompter{
		answers:  map[string]string{"Account": apitest.Account, "Username": apitest.Username},
		password: apitest.Password,
	}
	te.Prompter = prompter
	inv := invocation("configure", nil, map[string]any{config.FlagProfile: "staging", config.FlagURL: te.srv.URL})
	if err := NewConfigureCommand(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute(staging) error = %v", err)
	}
	if got := strings.Join(prompter.asked, ","); got != "Account,Username,Password" {
		t.Errorf("prompts = %s", got)
	}

	f := te.file(t)
	if f.CurrentProfile != "default" {
		t.Errorf("configuring a second profile changed current to %q", f.CurrentProfile)
	}
	if _, err := f.Get("staging"); err != nil {
		t.Errorf("staging profile not saved: %v", err)
	}
}

// TestConfigureFailures tests that failed configuration leaves no file
func TestConfigureFailures(t *testing.T) {
	tests := []struct {
		name     string
		opts     func(url string) map[string]any
		category errdefs.Category
	}{
		{
			name: "wrong password",
			opts: func(url string) map[string]any {
				return map[string]any{config.FlagURL: url, config.FlagAccount: apitest.Account,
					config.FlagUsername: apitest.Username, config.FlagPassword: "wrong"}
			},
			category: errdefs.CategoryAuth,
		},
		{
			name: "invalid url",
			opts: func(string) map[string]any {
				return map[string]any{config.FlagURL: "api.example.com", config.FlagAccount: apitest.Account,
					config.FlagUsername: apitest.Username, config.FlagPassword: apitest.Password}
			},
			category: errdefs.CategoryUsage,
		},
		{
			name: "missing account without prompter",
			opts: func(url string) map[string]any {
				return map[string]any{config.FlagURL: url, config.FlagUsername: apitest.Username,
					config.FlagPassword: apitest.Password}
			},
			category: errdefs.CategoryUsage,
		},
		{
			name: "invalid profile name",
			opts: func(url string) map[string]any {
				return map[string]any{config.FlagProfile: "-bad", config.FlagURL: url}
			},
			category: errdefs.CategoryUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			err := NewConfigureCommand(te.Env).Execute(context.Background(), invocation("configure", nil, tt.opts(te.srv.URL)))
			if !errdefs.Is(err, tt.category) {
				t.Fatalf("Execute() error = %v, want %s", err, tt.category)
			}
			if exists, _ := afero.Exists(te.fs, te.Store.Path()); exists {
				t.Error("profile file written despite failure")
			}
		})
	}
}

// TestListProfiles tests the profile listing
func TestListProfiles(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "staging", "default")

	if err := NewListProfilesCommand(te.Env).Execute(context.Background(), invocation("configure list", nil, nil)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if want := "  default\n* staging\n"; te.stdout.String() != want {
		t.Errorf("output = %q, want %q", te.stdout.String(), want)
	}
}

// TestDescribeProfile tests the describe view and that it hides credentials
func TestDescribeProfile(t *testing.T) {
	te := newTestEnv(t)
	f := &profile.File{}
	f.Put(&profile.Profile{Name: "default", URL: "https://api.example.com", Account: "acme", Username: "jdoe", Token: "tok-123"})
	if err := te.Store.Save(f); err != nil {
		t.Fatal(err)
	}

	inv := invocation("configure describe", map[string]string{ParamProfileName: "default"}, nil)
	if err := NewDescribeProfileCommand(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := te.stdout.String()
	if !strings.Contains(out, "url: https://api.example.com\n") {
		t.Errorf("output missing url line:\n%s", out)
	}
	for _, secret := range []string{"tok-123", "token", "password"} {
		if strings.Contains(out, secret) {
			t.Errorf("output contains %q:\n%s", secret, out)
		}
	}

	inv = invocation("configure describe", map[string]string{ParamProfileName: "missing"}, nil)
	err := NewDescribeProfileCommand(te.Env).Execute(context.Background(), inv)
	if !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Errorf("Execute(missing) error = %v, want not_found", err)
	}
}

// TestSetProfile tests switching and the unknown-name failure
func TestSetProfile(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "default", "staging")
	before, err := afero.ReadFile(te.fs, te.Store.Path())
	if err != nil {
		t.Fatal(err)
	}

	inv := invocation("configure set-profile", map[string]string{ParamProfileName: "prod"}, nil)
	err = NewSetProfileCommand(te.Env).Execute(context.Background(), inv)
	if !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Fatalf("Execute(prod) error = %v, want not_found", err)
	}
	after, _ := afero.ReadFile(te.fs, te.Store.Path())
	if !bytes.Equal(before, after) {
		t.Error("profile file changed after failed set-profile")
	}

	inv = invocation("configure set-profile", map[string]string{ParamProfileName: "staging"}, nil)
	if err := NewSetProfileCommand(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute(staging) error = %v", err)
	}
	if got := te.file(t).CurrentProfile; got != "staging" {
		t.Errorf("CurrentProfile = %q, want staging", got)
	}
}

// TestListTasks tests table, JSON and query output
func TestListTasks(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		want func(t *testing.T, out string)
	}{
		{
			name: "table",
			opts: nil,
			want: func(t *testing.T, out string) {
				if !strings.Contains(out, "ID") || !strings.Contains(out, "out of memory") || !strings.Contains(out, "3 hours ago") {
					t.Errorf("table output:\n%s", out)
				}
			},
		},
		{
			name: "json query projection",
			opts: map[string]any{config.FlagJSON: true, config.FlagQuery: "[?status=='COMPLETED'].id"},
			want: func(t *testing.T, out string) {
				if out != "[\n  \"t1\"\n]\n" {
					t.Errorf("output = %q", out)
				}
			},
		},
		{
			name: "json query empty result",
			opts: map[string]any{config.FlagJSON: true, config.FlagQuery: "[?status=='CANCELLED']"},
			want: func(t *testing.T, out string) {
				if out != "[]\n" {
					t.Errorf("output = %q, want []", out)
				}
			},
		},
		{
			name: "query without json is ignored",
			opts: map[string]any{config.FlagQuery: "[].id"},
			want: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "ID") {
					t.Errorf("expected table output, got:\n%s", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			te.seed(t, "default")

			if err := NewListTasks(te.Env).Execute(context.Background(), invocation("tasks list", taskArgs(""), tt.opts)); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			tt.want(t, te.stdout.String())
		})
	}
}

// TestListTasksErrors tests error categories surfaced by list
func TestListTasksErrors(t *testing.T) {
	te := newTestEnv(t)

	err := NewListTasks(te.Env).Execute(context.Background(), invocation("tasks list", taskArgs(""), nil))
	if !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Errorf("no profiles: error = %v, want not_found", err)
	}

	te.seed(t, "default")
	inv := invocation("tasks list", map[string]string{ParamJobID: "missing"}, nil)
	if err := NewListTasks(te.Env).Execute(context.Background(), inv); !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Errorf("unknown job: error = %v, want not_found", err)
	}

	inv = invocation("tasks list", taskArgs(""), map[string]any{config.FlagJSON: true, config.FlagQuery: "[?"})
	if err := NewListTasks(te.Env).Execute(context.Background(), inv); !errdefs.Is(err, errdefs.CategoryQuery) {
		t.Errorf("bad query: error = %v, want query", err)
	}

	inv = invocation("tasks list", map[string]string{ParamJobID: ""}, nil)
	if err := NewListTasks(te.Env).Execute(context.Background(), inv); !errdefs.Is(err, errdefs.CategoryUsage) {
		t.Errorf("empty job id: error = %v, want usage", err)
	}

	inv = invocation("tasks list", taskArgs(""), map[string]any{config.FlagProfile: "prod"})
	if err := NewListTasks(te.Env).Execute(context.Background(), inv); !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Errorf("unknown --profile: error = %v, want not_found", err)
	}
}

// TestExpiredToken tests that an expired token is rejected before any request
func TestExpiredToken(t *testing.T) {
	te := newTestEnv(t)
	expired, err := apitest.SignToken(testNow.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	f := &profile.File{}
	f.Put(&profile.Profile{Name: "default", URL: te.srv.URL, Account: "acme", Username: "jdoe", Token: expired})
	if err := te.Store.Save(f); err != nil {
		t.Fatal(err)
	}

	err = NewListTasks(te.Env).Execute(context.Background(), invocation("tasks list", taskArgs(""), nil))
	if !errdefs.Is(err, errdefs.CategoryAuth) {
		t.Fatalf("error = %v, want auth", err)
	}
	if len(te.srv.Requests()) != 0 {
		t.Errorf("requests sent with expired token: %v", te.srv.Requests())
	}
}

// TestTaskLogs tests text and JSON log output
func TestTaskLogs(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "default")

	if err := NewTaskLogs(te.Env).Execute(context.Background(), invocation("tasks logs", taskArgs("t3"), nil)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if te.stdout.String() != "loading model\nout of memory\n" {
		t.Errorf("output = %q", te.stdout.String())
	}

	te.stdout.Reset()
	inv := invocation("tasks logs", taskArgs("t1"), map[string]any{config.FlagJSON: true, config.FlagQuery: "logs[-1]"})
	if err := NewTaskLogs(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute(json) error = %v", err)
	}
	if te.stdout.String() != "\"done\"\n" {
		t.Errorf("json output = %q", te.stdout.String())
	}

	err := NewTaskLogs(te.Env).Execute(context.Background(), invocation("tasks logs", taskArgs("t9"), nil))
	if !errdefs.Is(err, errdefs.CategoryNotFound) {
		t.Errorf("unknown task: error = %v, want not_found", err)
	}
}

// TestCancelTask tests exact message forwarding and API refusals
func TestCancelTask(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "default")

	message := "  superseded by run #42; see \"ops\"  "
	inv := invocation("tasks cancel", taskArgs("t2"), map[string]any{config.FlagMessage: message})
	if err := NewCancelTask(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := te.srv.CancelMessages(); len(got) != 1 || got[0] != message {
		t.Errorf("forwarded messages = %q, want [%q]", got, message)
	}
	if !strings.Contains(te.stdout.String(), "Task 't2' cancelled") {
		t.Errorf("output = %q", te.stdout.String())
	}

	err := NewCancelTask(te.Env).Execute(context.Background(), invocation("tasks cancel", taskArgs("t2"), nil))
	if !errdefs.Is(err, errdefs.CategoryAPI) || !strings.Contains(err.Error(), "already CANCELLED") {
		t.Errorf("second cancel error = %v, want API refusal", err)
	}
}

// TestDescribeTask tests the key/value view and JSON queries
func TestDescribeTask(t *testing.T) {
	te := newTestEnv(t)
	te.seed(t, "default")

	if err := NewDescribeTask(te.Env).Execute(context.Background(), invocation("tasks describe", taskArgs("t1"), nil)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(te.stdout.String(), "id:") || !strings.Contains(te.stdout.String(), "ingest-action") {
		t.Errorf("output:\n%s", te.stdout.String())
	}

	te.stdout.Reset()
	inv := invocation("tasks describe", taskArgs("t1"), map[string]any{config.FlagJSON: true, config.FlagQuery: "nothing"})
	if err := NewDescribeTask(te.Env).Execute(context.Background(), inv); err != nil {
		t.Fatalf("Execute(json) error = %v", err)
	}
	if te.stdout.String() != "{}\n" {
		t.Errorf("json output = %q, want {}", te.stdout.String())
	}
}

// TestCheckCompatibility tests the guard wiring and its policies
func TestCheckCompatibility(t *testing.T) {
	incompatible := &compat.Compatibility{Name: "cortex-cli", MinVersion: "99.0.0"}

	t.Run("incompatible fails by default", func(t *testing.T) {
		te := newTestEnv(t)
		te.seed(t, "default")
		te.srv.SetCompat(incompatible)

		err := te.checkCompatibility(invocation("tasks list", taskArgs(""), nil))
		if !errdefs.Is(err, errdefs.CategoryCompatibility) {
			t.Errorf("error = %v, want compatibility", err)
		}
	})

	t.Run("no-compat skips the check", func(t *testing.T) {
		te := newTestEnv(t)
		te.seed(t, "default")
		te.srv.SetCompat(incompatible)

		inv := invocation("tasks list", taskArgs(""), map[string]any{config.FlagNoCompat: true})
		if err := te.checkCompatibility(inv); err != nil {
			t.Errorf("error = %v, want nil", err)
		}
		if len(te.srv.Requests()) != 0 {
			t.Errorf("compatibility endpoint called: %v", te.srv.Requests())
		}
	})

	t.Run("warn policy from profile file", func(t *testing.T) {
		te := newTestEnv(t)
		te.seed(t, "default")
		te.srv.SetCompat(incompatible)
		f := te.file(t)
		f.CompatPolicy = "warn"
		if err := te.Store.Save(f); err != nil {
			t.Fatal(err)
		}

		if err := te.checkCompatibility(invocation("tasks list", taskArgs(""), nil)); err != nil {
			t.Errorf("error = %v, want nil under warn policy", err)
		}
	})

	t.Run("environment overrides profile file", func(t *testing.T) {
		te := newTestEnv(t)
		te.seed(t, "default")
		te.srv.SetCompat(incompatible)
		f := te.file(t)
		f.CompatPolicy = "warn"
		if err := te.Store.Save(f); err != nil {
			t.Fatal(err)
		}
		t.Setenv(internalconfig.EnvCompatPolicy, "error")

		err := te.checkCompatibility(invocation("tasks list", taskArgs(""), nil))
		if !errdefs.Is(err, errdefs.CategoryCompatibility) {
			t.Errorf("error = %v, want compatibility", err)
		}
	})

	t.Run("unavailable endpoint does not block", func(t *testing.T) {
		te := newTestEnv(t)
		te.seed(t, "default")
		te.srv.SetCompat(nil)

		if err := te.checkCompatibility(invocation("tasks list", taskArgs(""), nil)); err != nil {
			t.Errorf("error = %v, want nil", err)
		}
	})
}
