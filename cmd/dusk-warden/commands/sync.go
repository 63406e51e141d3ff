package commands

import (
	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/secretsync"
	"github.com/spf13/cobra"
)

func NewSyncCommand(cfg *config.Config, deps *Deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull secret values into local files",
		Long: `Fetch every configured secret from Secrets Manager and write its value
to the mapped file, overwriting whatever is there.

Mappings are processed in order and the run stops at the first failure.
Files written before the failure are kept.

Examples:
  # Write all configured files
  dusk-warden sync

  # Show which files would change without touching them
  dusk-warden sync --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd, cfg, deps, secretsync.OperationSync, secretsync.Options{DryRun: dryRun})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch secrets but do not write any files")

	return cmd
}
