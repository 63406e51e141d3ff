// Package secretsync moves secret values between Secrets Manager and local files.
//
// Sync pulls each remote value into its file. Push sends each file's content
// to its remote secret. Both walk the mappings in order, one at a time, and
// stop at the first failure. Work already done before a failure is kept.
package secretsync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dusk-labs/dusk-warden/internal/config"
	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"github.com/dusk-labs/dusk-warden/internal/metrics"
	"github.com/dusk-labs/dusk-warden/internal/secure"
)

// Operation names used for metrics labels.
const (
	OperationSync = "sync"
	OperationPush = "push"
)

// fileMode applies only to files sync creates; existing files keep their permissions.
const fileMode os.FileMode = 0600

// RemoteClient reads and writes single secrets.
type RemoteClient interface {
	Fetch(ctx context.Context, id string, token *secure.Token) (string, error)
	Update(ctx context.Context, id, value string, token *secure.Token) error
}

// Options controls a single run.
type Options struct {
	// DryRun performs every read but no writes, local or remote.
	DryRun bool
}

// Engine runs sync and push over a list of mappings.
type Engine struct {
	client  RemoteClient
	out     io.Writer
	logger  *logging.Logger
	metrics *metrics.Recorder
}

// New creates an engine that prints confirmation lines to out.
func New(client RemoteClient, out io.Writer, logger *logging.Logger, recorder *metrics.Recorder) *Engine {
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Engine{
		client:  client,
		out:     out,
		logger:  logger,
		metrics: recorder,
	}
}

// Sync fetches every mapping's secret and writes it verbatim to the mapping's path.
func (e *Engine) Sync(ctx context.Context, mappings []config.SecretMapping, token *secure.Token, opts Options) (err error) {
	started := time.Now()
	defer func() { e.metrics.Run(OperationSync, started, dserrors.Category(err), err != nil) }()

	for _, m := range mappings {
		line, err := e.syncOne(ctx, m, token, opts)
		if err != nil {
			e.metrics.Mapping(OperationSync, metrics.ResultFailure)
			return err
		}
		if err := e.confirm(line); err != nil {
			return err
		}
	}
	return nil
}

// syncOne returns the confirmation line for m.
func (e *Engine) syncOne(ctx context.Context, m config.SecretMapping, token *secure.Token, opts Options) (string, error) {
	value, err := e.client.Fetch(ctx, m.ID, token)
	if err != nil {
		return "", &dserrors.MappingError{Op: "failed to fetch secret for", Path: m.Path, Err: err}
	}

	if opts.DryRun {
		e.metrics.Mapping(OperationSync, metrics.ResultSkipped)
		current, readErr := os.ReadFile(m.Path)
		if readErr == nil && bytes.Equal(current, []byte(value)) {
			return "Unchanged " + m.Path, nil
		}
		return "Would write " + m.Path, nil
	}

	if err := os.WriteFile(m.Path, []byte(value), fileMode); err != nil {
		return "", &dserrors.MappingError{
			Op:   "failed to write",
			Path: m.Path,
			Err:  &dserrors.IoError{Op: "write", Path: m.Path, Err: err},
		}
	}

	e.logger.Debug("Wrote %d bytes from secret %s to %s", len(value), m.ID, m.Path)
	e.metrics.Mapping(OperationSync, metrics.ResultSuccess)
	return "Wrote " + m.Path, nil
}

// Push reads every mapping's file and overwrites the mapping's remote secret with it.
func (e *Engine) Push(ctx context.Context, mappings []config.SecretMapping, token *secure.Token, opts Options) (err error) {
	started := time.Now()
	defer func() { e.metrics.Run(OperationPush, started, dserrors.Category(err), err != nil) }()

	for _, m := range mappings {
		line, err := e.pushOne(ctx, m, token, opts)
		if err != nil {
			e.metrics.Mapping(OperationPush, metrics.ResultFailure)
			return err
		}
		if err := e.confirm(line); err != nil {
			return err
		}
	}
	return nil
}

// pushOne returns the confirmation line for m.
func (e *Engine) pushOne(ctx context.Context, m config.SecretMapping, token *secure.Token, opts Options) (string, error) {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return "", &dserrors.MappingError{
			Op:   "failed to read",
			Path: m.Path,
			Err:  &dserrors.IoError{Op: "read", Path: m.Path, Err: err},
		}
	}

	if opts.DryRun {
		e.metrics.Mapping(OperationPush, metrics.ResultSkipped)
		return "Would push " + m.Path, nil
	}

	if err := e.client.Update(ctx, m.ID, string(content), token); err != nil {
		return "", &dserrors.MappingError{Op: "failed to push secret for", Path: m.Path, Err: err}
	}

	e.logger.Debug("Pushed %d bytes from %s to secret %s", len(content), m.Path, m.ID)
	e.metrics.Mapping(OperationPush, metrics.ResultSuccess)
	return "Pushed " + m.Path, nil
}

func (e *Engine) confirm(line string) error {
	if _, err := fmt.Fprintln(e.out, line); err != nil {
		return &dserrors.IoError{Op: "print", Path: "stdout", Err: err}
	}
	return nil
}
