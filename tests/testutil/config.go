// Package testutil provides test utilities and helpers for dusk-warden tests.
//
// This package contains shared test infrastructure including the configuration
// builder, a capturing logger, a scripted bws executor, and file assertions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-labs/dusk-warden/internal/config"
	"gopkg.in/yaml.v3"
)

// TestConfigBuilder provides a fluent API for building test configurations.
//
// Mapping paths given to WithMapping are resolved inside the builder's temp
// directory unless they are already absolute.
//
// Example usage:
//
//	builder := NewTestConfig(t).
//	    WithMapping(".env", "0b9e1c4e-0000-4000-8000-000000000001").
//	    WithCommand("/usr/local/bin/bws")
//
//	path := builder.Write()
type TestConfigBuilder struct {
	config *config.Definition
	dir    string
	t      *testing.T
}

// NewTestConfig creates a builder with an empty mapping list (version: 1).
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		config: &config.Definition{Version: 1, Secrets: []config.SecretMapping{}},
		dir:    t.TempDir(),
		t:      t,
	}
}

// WithMapping appends a path/id pair. Order is preserved.
func (b *TestConfigBuilder) WithMapping(path, id string) *TestConfigBuilder {
	b.config.Secrets = append(b.config.Secrets, config.SecretMapping{Path: b.Path(path), ID: id})
	return b
}

// WithCommand overrides the bws binary.
func (b *TestConfigBuilder) WithCommand(command string) *TestConfigBuilder {
	b.config.Bws.Command = command
	return b
}

// WithServerURL sets the Secrets Manager server URL.
func (b *TestConfigBuilder) WithServerURL(url string) *TestConfigBuilder {
	b.config.Bws.ServerURL = url
	return b
}

// Path resolves name inside the builder's temp directory.
func (b *TestConfigBuilder) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(b.dir, name)
}

// Write writes dusk-warden.yaml into the temp directory and returns its path.
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	path := filepath.Join(b.dir, config.DefaultPath)
	if err := b.WriteYAML(path); err != nil {
		b.t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// WriteYAML writes the configuration to path.
func (b *TestConfigBuilder) WriteYAML(path string) error {
	data, err := yaml.Marshal(b.config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteTestConfig writes a hand-written YAML document to a temp file and returns its path.
//
// Example:
//
//	path := WriteTestConfig(t, `
//	secrets:
//	  - path: .env
//	    id: 0b9e1c4e-0000-4000-8000-000000000001
//	`)
func WriteTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultPath)
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}
