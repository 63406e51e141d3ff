package fakes

import (
	"context"
	"sync"

	"github.com/dusk-labs/dusk-warden/internal/secure"
)

// FakeSecretStore is an in-memory stand-in for a remote secret client.
type FakeSecretStore struct {
	mu sync.Mutex

	// Values maps secret id -> value
	Values map[string]string

	// FetchErr and UpdateErr fail calls for the given ids
	FetchErr  map[string]error
	UpdateErr map[string]error

	// Calls records "fetch <id>" and "update <id>" in call order
	Calls []string
}

// NewFakeSecretStore creates a store seeded with values.
func NewFakeSecretStore(values map[string]string) *FakeSecretStore {
	if values == nil {
		values = make(map[string]string)
	}
	return &FakeSecretStore{
		Values:    values,
		FetchErr:  make(map[string]error),
		UpdateErr: make(map[string]error),
	}
}

// Fetch returns the stored value for id.
func (f *FakeSecretStore) Fetch(_ context.Context, id string, token *secure.Token) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "fetch "+id)

	if err := token.Use(func(string) error { return nil }); err != nil {
		return "", err
	}
	if err, ok := f.FetchErr[id]; ok {
		return "", err
	}
	return f.Values[id], nil
}

// Update replaces the stored value for id.
func (f *FakeSecretStore) Update(_ context.Context, id, value string, token *secure.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "update "+id)

	if err := token.Use(func(string) error { return nil }); err != nil {
		return err
	}
	if err, ok := f.UpdateErr[id]; ok {
		return err
	}
	f.Values[id] = value
	return nil
}

// Value returns the stored value for id.
func (f *FakeSecretStore) Value(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Values[id]
}
