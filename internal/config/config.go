package config

import (
	"fmt"
	"os"
	"strings"

	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/dusk-labs/dusk-warden/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "dusk-warden.yaml"

// DefaultCommand is the Bitwarden Secrets Manager CLI binary name.
const DefaultCommand = "bws"

// Config holds the runtime configuration
type Config struct {
	Path        string
	Logger      *logging.Logger
	MetricsFile string
	Definition  *Definition
}

// Definition represents the dusk-warden.yaml structure
type Definition struct {
	Version int             `yaml:"version"`
	Bws     BwsConfig       `yaml:"bws,omitempty"`
	Secrets []SecretMapping `yaml:"secrets"`
}

// BwsConfig tunes how the bws CLI is invoked.
type BwsConfig struct {
	Command   string `yaml:"command,omitempty"`
	ServerURL string `yaml:"server_url,omitempty"`
}

// SecretMapping pairs a local file with a remote secret id.
type SecretMapping struct {
	Path string `yaml:"path"`
	ID   string `yaml:"id"`
}

// Load reads, validates and parses the configuration file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: fmt.Sprintf("Create %s with a 'secrets' list of path/id pairs, or pass --config", DefaultPath),
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	if c.Logger != nil {
		c.Logger.Debug("Loaded %d secret mapping(s) from %s", len(def.Secrets), c.Path)
	}

	c.Definition = def
	return nil
}

// Parse validates raw YAML against the configuration schema and decodes it.
func Parse(data []byte) (*Definition, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		return nil, dserrors.ConfigError{
			Message:    "configuration file is empty",
			Suggestion: "Add a 'secrets' list of path/id pairs",
		}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, dserrors.ConfigError{
			Message:    fmt.Sprintf("cannot decode configuration: %v", err),
			Suggestion: "Check that every entry under 'secrets' has string 'path' and 'id' fields",
		}
	}

	for i, m := range def.Secrets {
		if strings.TrimSpace(m.Path) == "" {
			return nil, dserrors.ConfigError{
				Field:   fmt.Sprintf("secrets[%d].path", i),
				Message: "path must not be blank",
			}
		}
		if strings.TrimSpace(m.ID) == "" {
			return nil, dserrors.ConfigError{
				Field:   fmt.Sprintf("secrets[%d].id", i),
				Message: "id must not be blank",
			}
		}
	}

	return &def, nil
}

// Mappings returns the configured secret mappings in file order.
func (c *Config) Mappings() ([]SecretMapping, error) {
	if c.Definition == nil {
		return nil, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}
	return c.Definition.Secrets, nil
}

// Command returns the bws binary to invoke.
func (c *Config) Command() string {
	if c.Definition == nil || c.Definition.Bws.Command == "" {
		return DefaultCommand
	}
	return c.Definition.Bws.Command
}

// ServerURL returns the configured Secrets Manager server URL, if any.
func (c *Config) ServerURL() string {
	if c.Definition == nil {
		return ""
	}
	return c.Definition.Bws.ServerURL
}
