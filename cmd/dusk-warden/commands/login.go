package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/credentials"
	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewLoginCommand(cfg *config.Config, deps *Deps) *cobra.Command {
	var (
		token  string
		forget bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Secrets Manager access token in the OS keychain",
		Long: `Save a machine account access token in the OS keychain so that sync
and push work without BWS_ACCESS_TOKEN being set.

The token is read from the first line of stdin unless --token is given.
BWS_ACCESS_TOKEN still takes precedence over the stored token.

Examples:
  # Paste the token when prompted
  dusk-warden login

  # Pipe it from another tool
  pass show bws/ci | dusk-warden login

  # Remove the stored token
  dusk-warden login --forget`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFor(cfg)
			resolver := deps.resolver(logger)

			if forget {
				if err := resolver.Forget(); err != nil {
					return err
				}
				logger.Info("Removed access token from the OS keychain")
				return nil
			}

			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return dserrors.UserError{
						Message: "Failed to read access token from stdin",
						Details: err.Error(),
						Err:     err,
					}
				}
				fmt.Fprintln(cmd.ErrOrStderr())
				token = line
			}

			if err := resolver.Store(token); err != nil {
				return err
			}
			logger.Info("Stored access token in the OS keychain (%s/%s)", credentials.KeychainService, credentials.KeychainAccount)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token to store (visible in shell history, prefer stdin)")
	cmd.Flags().BoolVar(&forget, "forget", false, "Remove the stored access token")

	return cmd
}

// readLine reads one line from r. A terminal on the other end does not echo it.
func readLine(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
