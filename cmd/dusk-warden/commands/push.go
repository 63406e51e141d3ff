package commands

import (
	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/secretsync"
	"github.com/spf13/cobra"
)

func NewPushCommand(cfg *config.Config, deps *Deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Overwrite remote secrets with local file contents",
		Long: `Read every configured file and replace the value of its secret in
Secrets Manager with the file's content.

The machine account behind the access token needs write access to each
project. Secrets updated before a failure stay updated.

Examples:
  dusk-warden push
  dusk-warden push --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd, cfg, deps, secretsync.OperationPush, secretsync.Options{DryRun: dryRun})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read files but do not update any secrets")

	return cmd
}
