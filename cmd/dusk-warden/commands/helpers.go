package commands

import (
	"context"
	"os"

	"github.com/dusk-labs/dusk-warden/internal/bws"
	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/credentials"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"github.com/dusk-labs/dusk-warden/internal/metrics"
	"github.com/dusk-labs/dusk-warden/internal/secretsync"
	"github.com/dusk-labs/dusk-warden/internal/update"
	pkgexec "github.com/dusk-labs/dusk-warden/pkg/exec"
	"github.com/spf13/cobra"
)

// Deps holds the process-level collaborators shared by all commands.
type Deps struct {
	Executor  pkgexec.CommandExecutor
	Keychain  credentials.KeychainClient
	LookupEnv func(string) (string, bool)
	Update    update.Config
}

// DefaultDeps wires the real subprocess runner, OS keychain and environment.
func DefaultDeps() *Deps {
	return &Deps{
		Executor:  pkgexec.DefaultExecutor(),
		Keychain:  credentials.NewSystemKeychain(),
		LookupEnv: os.LookupEnv,
	}
}

func (d *Deps) resolver(logger *logging.Logger) *credentials.Resolver {
	return credentials.NewResolverWithClient(logger, d.Keychain, d.LookupEnv)
}

func loggerFor(cfg *config.Config) *logging.Logger {
	if cfg.Logger == nil {
		cfg.Logger = logging.New(false, false)
	}
	return cfg.Logger
}

// runEngine loads the configuration, resolves the token and runs operation over every mapping.
func runEngine(cmd *cobra.Command, cfg *config.Config, deps *Deps, operation string, opts secretsync.Options) error {
	logger := loggerFor(cfg)

	if err := cfg.Load(); err != nil {
		return err
	}
	mappings, err := cfg.Mappings()
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		logger.Warn("No secrets configured in %s", cfg.Path)
	}

	token, err := deps.resolver(logger).Resolve()
	if err != nil {
		return err
	}
	defer token.Destroy()

	client := bws.NewClientWithExecutor(bws.Options{
		Command:   cfg.Command(),
		ServerURL: cfg.ServerURL(),
	}, logger, deps.Executor)

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	engine := secretsync.New(client, cmd.OutOrStdout(), logger, recorder)
	ctx := commandContext(cmd)

	switch operation {
	case secretsync.OperationPush:
		err = engine.Push(ctx, mappings, token, opts)
	default:
		err = engine.Sync(ctx, mappings, token, opts)
	}

	if recorder != nil {
		if writeErr := recorder.WriteTextfile(cfg.MetricsFile); writeErr != nil {
			logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, writeErr)
		} else {
			logger.Debug("Wrote metrics to %s", cfg.MetricsFile)
		}
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
