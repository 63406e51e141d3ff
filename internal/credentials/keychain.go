package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// ErrItemNotFound is returned when the keychain holds no token.
var ErrItemNotFound = errors.New("keychain item not found")

// KeychainClient abstracts OS keychain operations for testing
type KeychainClient interface {
	// Get retrieves a secret from the keychain
	Get(service, account string) (string, error)

	// Set stores a secret in the keychain, replacing any previous value
	Set(service, account, secret string) error

	// Delete removes a secret from the keychain
	Delete(service, account string) error
}

// systemKeychain uses macOS Keychain, Linux Secret Service or Windows Credential Manager.
type systemKeychain struct{}

// NewSystemKeychain returns the platform keychain client.
func NewSystemKeychain() KeychainClient {
	return systemKeychain{}
}

func (systemKeychain) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrItemNotFound
	}
	return secret, err
}

func (systemKeychain) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (systemKeychain) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

var _ KeychainClient = systemKeychain{}
