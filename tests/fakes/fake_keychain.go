package fakes

import (
	"github.com/dusk-labs/dusk-warden/internal/credentials"
)

// FakeKeychainClient is a test double for credentials.KeychainClient
type FakeKeychainClient struct {
	// Secrets is a map of service -> account -> value
	Secrets map[string]map[string]string

	// GetErr is returned by Get() if set (overrides Secrets lookup)
	GetErr error

	// SetErr is returned by Set() if set
	SetErr error

	// DeleteErr is returned by Delete() if set
	DeleteErr error
}

// NewFakeKeychainClient creates a new empty fake keychain client
func NewFakeKeychainClient() *FakeKeychainClient {
	return &FakeKeychainClient{
		Secrets: make(map[string]map[string]string),
	}
}

// SetSecret adds a secret to the fake keychain
func (f *FakeKeychainClient) SetSecret(service, account, value string) {
	if f.Secrets == nil {
		f.Secrets = make(map[string]map[string]string)
	}
	if f.Secrets[service] == nil {
		f.Secrets[service] = make(map[string]string)
	}
	f.Secrets[service][account] = value
}

// Get retrieves a secret from the fake keychain
func (f *FakeKeychainClient) Get(service, account string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}

	if accounts, ok := f.Secrets[service]; ok {
		if value, ok := accounts[account]; ok {
			return value, nil
		}
	}
	return "", credentials.ErrItemNotFound
}

// Set stores a secret in the fake keychain
func (f *FakeKeychainClient) Set(service, account, secret string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.SetSecret(service, account, secret)
	return nil
}

// Delete removes a secret from the fake keychain
func (f *FakeKeychainClient) Delete(service, account string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if accounts, ok := f.Secrets[service]; ok {
		if _, ok := accounts[account]; ok {
			delete(accounts, account)
			return nil
		}
	}
	return credentials.ErrItemNotFound
}

// NoEnv is an environment lookup that finds nothing.
func NoEnv(string) (string, bool) {
	return "", false
}

// Env returns an environment lookup backed by vars.
func Env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// Ensure FakeKeychainClient implements credentials.KeychainClient
var _ credentials.KeychainClient = (*FakeKeychainClient)(nil)
