package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/display"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/handlers"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/spf13/cobra"
)

// suggestionDistance is the Levenshtein distance within which an unknown
// subcommand gets a "did you mean" hint.
const suggestionDistance = 2

// runFunc is the signature shared by handlers and the wrappers around them.
type runFunc func(ctx context.Context, inv *config.Invocation) error

// reportedError marks an error that dispatch already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// Build creates the cobra command tree from Table.
func Build(env *handlers.Env) *cobra.Command {
	var global config.Global
	root := newRootCmd(env, &global)
	for _, d := range Table() {
		root.AddCommand(build(d, env))
	}
	return root
}

func build(d Descriptor, env *handlers.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     d.Use(),
		Short:   d.Short,
		Long:    d.Long,
		Example: d.Example,
		Args:    positionalArgs(d),

		SuggestionsMinimumDistance: suggestionDistance,
	}

	for _, o := range d.Options {
		if o.Bool {
			cmd.Flags().BoolP(o.Name, o.Shorthand, false, o.Usage)
		} else {
			cmd.Flags().StringP(o.Name, o.Shorthand, o.Default, o.Usage)
		}
	}

	if d.New != nil {
		cmd.RunE = dispatch(d, env)
	} else {
		// Groups must be runnable, otherwise cobra prints help and exits 0
		// before the arguments are validated.
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return errdefs.Usage("'%s' requires a subcommand", cmd.CommandPath())
		}
	}

	for _, child := range d.Children {
		cmd.AddCommand(build(child, env))
	}
	return cmd
}

// positionalArgs checks the positional count against d.Params. On a node
// with children and no params, any positional is an unknown subcommand.
func positionalArgs(d Descriptor) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(d.Children) > 0 && len(d.Params) == 0 && len(args) > 0 {
			return unknownCommand(cmd, args[0])
		}
		if len(args) < len(d.Params) {
			return errdefs.Usage("'%s' requires argument <%s>", cmd.CommandPath(), d.Params[len(args)])
		}
		if len(args) > len(d.Params) {
			return errdefs.Usage("unexpected argument %q for '%s'", args[len(d.Params)], cmd.CommandPath())
		}
		return nil
	}
}

func unknownCommand(cmd *cobra.Command, name string) error {
	msg := fmt.Sprintf("unknown command %q for %q", name, cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(name); len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestions[0])
	}
	return errdefs.Usage("%s", msg)
}

// dispatch is the single RunE shared by every runnable node. Errors are
// printed here with the invocation's --color setting and returned marked as
// reported so Execute only sets the exit code.
func dispatch(d Descriptor, env *handlers.Env) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		inv := invocation(cmd, d, args)
		logging.Debug("Dispatching '%s' with args %v", inv.Command, args)

		err := run(cmd.Context(), d, env, inv)
		if err == nil {
			return nil
		}
		if errdefs.CategoryOf(err) == "" {
			err = errdefs.Internal("%w", err)
		}
		env.Formatter(inv).Error(err)
		return reportedError{err}
	}
}

func run(ctx context.Context, d Descriptor, env *handlers.Env, inv *config.Invocation) error {
	if err := config.ValidateOptions(inv.Options); err != nil {
		return err
	}

	command := d.New(env)
	if !d.Compat {
		return command.Execute(ctx, inv)
	}
	remote, ok := command.(handlers.RemoteCommand)
	if !ok {
		return errdefs.Internal("command '%s' does not use the API", inv.Command)
	}
	return withCompatibilityCheck(env, remote.Run)(ctx, inv)
}

// withCompatibilityCheck resolves the session once, runs the compatibility
// guard with it and hands the same session to next.
func withCompatibilityCheck(env *handlers.Env, next handlers.RemoteFunc) runFunc {
	return func(ctx context.Context, inv *config.Invocation) error {
		session, err := env.Connect(inv)
		if err != nil {
			return err
		}
		if err := env.CheckCompatibility(ctx, inv, session); err != nil {
			return err
		}
		return next(ctx, inv, session)
	}
}

// invocation converts cobra's parsed state into an Invocation. Every
// declared option is present, holding its default when not passed.
func invocation(cmd *cobra.Command, d Descriptor, args []string) *config.Invocation {
	flags := cmd.Flags()
	values := make(map[string]any, len(d.Options))
	var set []string
	for _, o := range d.Options {
		if o.Bool {
			values[o.Name], _ = flags.GetBool(o.Name)
		} else {
			values[o.Name], _ = flags.GetString(o.Name)
		}
		if flags.Changed(o.Name) {
			set = append(set, o.Name)
		}
	}

	params := make(map[string]string, len(d.Params))
	for i, name := range d.Params {
		params[name] = args[i]
	}

	return &config.Invocation{
		Command: strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "),
		Args:    params,
		Options: config.NewOptions(values, set),
	}
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, env *handlers.Env, args []string) int {
	root := Build(env)
	root.SetArgs(args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		// Parser errors raised inside cobra carry no category
		if errdefs.CategoryOf(err) == "" {
			err = errdefs.Usage("%v", err)
		}
		display.New(env.Stdout, env.Stderr, colorRequested(args)).Error(err)
		if errdefs.Is(err, errdefs.CategoryUsage) && cmd != nil {
			fmt.Fprintf(env.Stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
		}
	}
	return errdefs.ExitCode(err)
}

// colorRequested reports the --color value from raw args for errors raised
// before an Invocation exists. The last occurrence wins.
func colorRequested(args []string) bool {
	color := config.ColorOn
	flag := "--" + config.FlagColor
	for i, arg := range args {
		switch {
		case arg == "--":
			return color != config.ColorOff
		case arg == flag && i+1 < len(args):
			color = args[i+1]
		case strings.HasPrefix(arg, flag+"="):
			color = strings.TrimPrefix(arg, flag+"=")
		}
	}
	return color != config.ColorOff
}
