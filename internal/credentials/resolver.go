// Package credentials resolves the Secrets Manager access token for a run.
package credentials

import (
	"errors"
	"os"
	"strings"

	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"github.com/dusk-labs/dusk-warden/internal/secure"
)

const (
	// EnvVar is read first and is also the variable bws itself consumes.
	EnvVar = "BWS_ACCESS_TOKEN"

	// KeychainService and KeychainAccount locate the token stored by 'dusk-warden login'.
	KeychainService = "dusk-warden"
	KeychainAccount = "bws-access-token"
)

// Token sources reported by Lookup and secure.Token.Source.
const (
	SourceEnv      = "env"
	SourceKeychain = "keychain"
	SourceNone     = "none"
)

// Resolver finds the access token in the environment or the OS keychain.
type Resolver struct {
	keychain KeychainClient
	lookup   func(string) (string, bool)
	logger   *logging.Logger
}

// NewResolver creates a resolver backed by the process environment and the system keychain.
func NewResolver(logger *logging.Logger) *Resolver {
	return NewResolverWithClient(logger, NewSystemKeychain(), os.LookupEnv)
}

// NewResolverWithClient creates a resolver with injected keychain and environment lookup.
func NewResolverWithClient(logger *logging.Logger, keychain KeychainClient, lookup func(string) (string, bool)) *Resolver {
	return &Resolver{
		keychain: keychain,
		lookup:   lookup,
		logger:   logger,
	}
}

// Resolve returns the token sealed in memory. The environment variable wins over the keychain.
func (r *Resolver) Resolve() (*secure.Token, error) {
	if value, ok := r.lookup(EnvVar); ok && strings.TrimSpace(value) != "" {
		r.debug("Using access token from %s", EnvVar)
		return secure.NewToken([]byte(strings.TrimSpace(value)), SourceEnv)
	}

	value, err := r.keychain.Get(KeychainService, KeychainAccount)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, dserrors.UserError{
				Message:    "No Secrets Manager access token found",
				Suggestion: "Set " + EnvVar + " or run 'dusk-warden login' to store a token in the OS keychain",
			}
		}
		return nil, dserrors.UserError{
			Message:    "Failed to read access token from the OS keychain",
			Details:    err.Error(),
			Suggestion: "Set " + EnvVar + " instead, especially in headless or CI environments",
			Err:        err,
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return nil, dserrors.UserError{
			Message:    "Access token stored in the OS keychain is empty",
			Suggestion: "Run 'dusk-warden login' again",
		}
	}

	r.debug("Using access token from OS keychain (%s/%s)", KeychainService, KeychainAccount)
	return secure.NewToken([]byte(value), SourceKeychain)
}

// Lookup reports which source Resolve would use without exposing the token.
func (r *Resolver) Lookup() string {
	if value, ok := r.lookup(EnvVar); ok && strings.TrimSpace(value) != "" {
		return SourceEnv
	}
	value, err := r.keychain.Get(KeychainService, KeychainAccount)
	if err != nil || strings.TrimSpace(value) == "" {
		return SourceNone
	}
	return SourceKeychain
}

// Store saves token in the OS keychain.
func (r *Resolver) Store(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return dserrors.UserError{
			Message:    "Access token is empty",
			Suggestion: "Paste a machine account access token from the Secrets Manager web vault",
		}
	}
	if err := r.keychain.Set(KeychainService, KeychainAccount, token); err != nil {
		return dserrors.UserError{
			Message:    "Failed to store access token in the OS keychain",
			Details:    err.Error(),
			Suggestion: "Use the " + EnvVar + " environment variable instead",
			Err:        err,
		}
	}
	r.debug("Stored access token in OS keychain (%s/%s)", KeychainService, KeychainAccount)
	return nil
}

// Forget removes the stored token. A missing item is not an error.
func (r *Resolver) Forget() error {
	err := r.keychain.Delete(KeychainService, KeychainAccount)
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		return dserrors.UserError{
			Message: "Failed to remove access token from the OS keychain",
			Details: err.Error(),
			Err:     err,
		}
	}
	return nil
}

func (r *Resolver) debug(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(format, args...)
	}
}
