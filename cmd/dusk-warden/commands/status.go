package commands

import (
	"fmt"
	"os"

	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/credentials"
	"github.com/spf13/cobra"
)

func NewStatusCommand(cfg *config.Config, deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configured mappings and token source",
		Long: `List every mapping in the configuration with whether its local file
exists, and report where the access token would be read from.

No secrets are fetched and the token is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFor(cfg)
			if err := cfg.Load(); err != nil {
				return err
			}
			mappings, err := cfg.Mappings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", cfg.Path)
			fmt.Fprintf(out, "bws command: %s\n", cfg.Command())
			if url := cfg.ServerURL(); url != "" {
				fmt.Fprintf(out, "Server URL: %s\n", url)
			}

			fmt.Fprintf(out, "\nMappings (%d):\n", len(mappings))
			for _, m := range mappings {
				fmt.Fprintf(out, "  %s -> %s (%s)\n", m.Path, m.ID, fileState(m.Path))
			}

			fmt.Fprintln(out)
			switch source := deps.resolver(logger).Lookup(); source {
			case credentials.SourceEnv:
				fmt.Fprintf(out, "Access token: %s (%s)\n", source, credentials.EnvVar)
			case credentials.SourceKeychain:
				fmt.Fprintf(out, "Access token: %s (%s/%s)\n", source, credentials.KeychainService, credentials.KeychainAccount)
			default:
				fmt.Fprintf(out, "Access token: %s\n", source)
				logger.Warn("No access token found. Set %s or run 'dusk-warden login'", credentials.EnvVar)
			}
			return nil
		},
	}

	return cmd
}

func fileState(path string) string {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return "directory"
	case err == nil:
		return "present"
	case os.IsNotExist(err):
		return "missing"
	default:
		return "unreadable"
	}
}
