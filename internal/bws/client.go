// Package bws talks to Bitwarden Secrets Manager through the bws CLI.
//
// Every call spawns one bws process, waits for it to exit, and interprets
// its exit status and output. The access token reaches bws only through
// the child's environment.
package bws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"github.com/dusk-labs/dusk-warden/internal/secure"
	pkgexec "github.com/dusk-labs/dusk-warden/pkg/exec"
)

const (
	// TokenEnvVar carries the access token into the bws process.
	TokenEnvVar = "BWS_ACCESS_TOKEN"

	// ServerURLEnvVar points bws at a self-hosted or regional server.
	ServerURLEnvVar = "BWS_SERVER_URL"

	// DefaultCommand is the bws binary looked up on PATH.
	DefaultCommand = "bws"
)

// Markers bws prints when a secret does not exist or the machine account cannot see it.
var notFoundMarkers = []string{"404", "Resource not found"}

// Options configures a Client.
type Options struct {
	Command   string
	ServerURL string
}

// Client fetches and updates individual secrets via the bws CLI.
type Client struct {
	command   string
	serverURL string
	executor  pkgexec.CommandExecutor
	logger    *logging.Logger
}

// NewClient creates a client that runs the real bws binary.
func NewClient(opts Options, logger *logging.Logger) *Client {
	return NewClientWithExecutor(opts, logger, pkgexec.DefaultExecutor())
}

// NewClientWithExecutor creates a client with a custom executor.
// This is primarily for testing, allowing the bws CLI to be mocked.
func NewClientWithExecutor(opts Options, logger *logging.Logger, executor pkgexec.CommandExecutor) *Client {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Client{
		command:   command,
		serverURL: opts.ServerURL,
		executor:  executor,
		logger:    logger,
	}
}

// Command returns the bws binary this client invokes.
func (c *Client) Command() string {
	return c.command
}

// secretResponse is the subset of 'bws secret get' output we read.
type secretResponse struct {
	Value *json.RawMessage `json:"value"`
}

// Fetch returns the value of the secret identified by id.
func (c *Client) Fetch(ctx context.Context, id string, token *secure.Token) (string, error) {
	c.logger.Debug("Fetching secret %s", id)

	stdout, stderr, err := c.run(ctx, token, "secret", "get", id)
	if err != nil {
		if pkgexec.IsExitError(err) {
			return "", &dserrors.RemoteError{
				Command: c.command,
				Message: "bws failed: " + string(stderr),
				Err:     err,
			}
		}
		return "", err
	}

	return parseSecretValue(stdout)
}

// Update overwrites the value of the secret identified by id.
func (c *Client) Update(ctx context.Context, id, value string, token *secure.Token) error {
	c.logger.Debug("Updating secret %s (%d bytes)", id, len(value))

	_, stderr, err := c.run(ctx, token, "secret", "edit", "--value", value, id)
	if err != nil {
		if pkgexec.IsExitError(err) {
			return &dserrors.RemoteError{
				Command: c.command,
				Message: ClassifyUpdateFailure(string(stderr), id),
				Err:     err,
			}
		}
		return err
	}
	return nil
}

// run executes one bws invocation with the token scoped to the child process.
func (c *Client) run(ctx context.Context, token *secure.Token, args ...string) (stdout, stderr []byte, err error) {
	useErr := token.Use(func(value string) error {
		env := []string{TokenEnvVar + "=" + value}
		if c.serverURL != "" {
			env = append(env, ServerURLEnvVar+"="+c.serverURL)
		}
		c.logger.Debug("Running %s %s (%s=%s)", c.command, describeArgs(args), TokenEnvVar, logging.Secret(value))

		stdout, stderr, err = c.executor.Execute(ctx, env, c.command, args...)
		// bws echoes a malformed token back in its diagnostics.
		stderr = []byte(logging.Redact(string(stderr), []string{value}))
		return nil
	})
	if useErr != nil {
		return nil, nil, useErr
	}
	if err != nil && !pkgexec.IsExitError(err) {
		if errors.Is(err, exec.ErrNotFound) {
			err = dserrors.WrapCommandNotFound(c.command, err)
		}
		return nil, nil, &dserrors.ExecutionError{Command: c.command, Err: err}
	}
	return stdout, stderr, err
}

// describeArgs renders args for debug output with the secret value masked.
func describeArgs(args []string) string {
	shown := make([]string, len(args))
	for i, arg := range args {
		if i > 0 && args[i-1] == "--value" {
			shown[i] = logging.Secret(arg).String()
			continue
		}
		shown[i] = arg
	}
	return strings.Join(shown, " ")
}

// ClassifyUpdateFailure explains a failed 'secret edit'. Secrets Manager answers 404 both
// when the secret is missing and when the machine account lacks write access,
// so the message names both possibilities.
func ClassifyUpdateFailure(stderr, id string) string {
	for _, marker := range notFoundMarkers {
		if strings.Contains(stderr, marker) {
			return fmt.Sprintf("Secret %s not found or access denied. "+
				"Check that your service account token has write permissions.", id)
		}
	}
	return "bws failed: " + stderr
}

// parseSecretValue extracts the string 'value' field from 'bws secret get' output.
func parseSecretValue(stdout []byte) (string, error) {
	var resp secretResponse
	if err := json.Unmarshal(stdout, &resp); err != nil {
		return "", &dserrors.ParseError{Message: "failed to parse bws output as JSON", Err: err}
	}
	if resp.Value == nil {
		return "", &dserrors.ParseError{Message: "secret value not found in bws output"}
	}

	var value string
	if err := json.Unmarshal(*resp.Value, &value); err != nil {
		return "", &dserrors.ParseError{Message: "secret value not found in bws output"}
	}
	return value, nil
}
