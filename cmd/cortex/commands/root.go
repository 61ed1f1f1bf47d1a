package commands

import (
	"time"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/handlers"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/utils"
	internalconfig "github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/spf13/cobra"
)

func newRootCmd(env *handlers.Env, global *config.Global) *cobra.Command {
	root := &cobra.Command{
		Use:   "cortex",
		Short: "Command line interface for the Cortex platform",
		Long: `cortex manages connection profiles and inspects the tasks of
Cortex jobs.

Run 'cortex configure' first to create a profile. Task commands check that
this CLI version is supported by the API before they run; pass --no-compat
to skip the check.`,
		Example: `  # Create the default profile
  cortex configure

  # List the tasks of a job
  cortex tasks list job-1

  # Show only failed task IDs
  cortex tasks list job-1 --json --query "[?status=='FAILED'].id"

  # Cancel a task with a reason
  cortex tasks cancel job-1 t2 -m "superseded"`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,

		SuggestionsMinimumDistance: suggestionDistance,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateGlobalFlags(*global); err != nil {
				return err
			}
			utils.SetupLogging(global.LogLevel)
			env.Timeout = time.Duration(global.Timeout) * time.Second
			return nil
		},
	}

	root.PersistentFlags().StringVar(&global.LogLevel, config.FlagLogLevel, internalconfig.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	root.PersistentFlags().IntVar(&global.Timeout, config.FlagTimeout, int(internalconfig.DefaultTimeout/time.Second),
		"API request timeout in seconds")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errdefs.Usage("%v", err)
	})

	return root
}
