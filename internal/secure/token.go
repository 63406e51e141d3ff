package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrEmptyToken is returned when a token is created from empty input.
var ErrEmptyToken = errors.New("access token is empty")

// ErrDestroyed is returned when a destroyed token is used.
var ErrDestroyed = errors.New("access token has been destroyed")

// Token holds a bearer credential encrypted in memory.
type Token struct {
	enclave *memguard.Enclave
	source  string
	mu      sync.RWMutex
}

// NewToken seals raw into an enclave. source describes where the token came
// from (for example "env" or "keychain") and is safe to display.
func NewToken(raw []byte, source string) (*Token, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyToken
	}
	// NewEnclave wipes raw after copying it.
	return &Token{
		enclave: memguard.NewEnclave(raw),
		source:  source,
	}, nil
}

// Source reports where the token was resolved from.
func (t *Token) Source() string {
	return t.source
}

// Use decrypts the token and passes it to fn. The decrypted buffer is
// destroyed when fn returns.
func (t *Token) Use(fn func(value string) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.enclave == nil {
		return ErrDestroyed
	}

	locked, err := t.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(string(locked.Bytes()))
}

// Destroy drops the enclave. Safe to call more than once.
func (t *Token) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enclave = nil
}

// String never reveals the token.
func (t *Token) String() string {
	return "[REDACTED]"
}

// GoString never reveals the token.
func (t *Token) GoString() string {
	return "[REDACTED]"
}
