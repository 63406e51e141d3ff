package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/update"
	"github.com/spf13/cobra"
)

func NewUpdateCommand(cfg *config.Config, deps *Deps, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace this binary with the latest release",
		Long: `Check GitHub for the newest dusk-warden release and, when it is newer
than the running version, download the build for this platform and
replace the current executable with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFor(cfg)

			updateCfg := deps.Update
			updateCfg.Current = version
			updater := update.New(updateCfg, logger)

			stop := startSpinner("Checking for updates", logger.IsDebug())
			result, err := updater.Update(commandContext(cmd))
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Updated {
				fmt.Fprintf(out, "Already up to date (%s)\n", result.Previous)
				return nil
			}
			fmt.Fprintf(out, "Updated %s from %s to %s\n", result.Path, result.Previous, result.Latest)
			return nil
		},
	}

	return cmd
}

// startSpinner animates message on stderr while a slow call runs. The spinner
// stays silent when stderr is not a terminal or debug output is on.
func startSpinner(message string, debug bool) func() {
	if debug {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}
