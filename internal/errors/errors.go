package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  " + e.Suggestion
	}

	return msg
}

// ExecutionError means the external secret command could not be launched.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to run %s CLI (is it installed?): %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// RemoteError means the external secret command ran and exited non-zero.
// Message is either the raw diagnostic text or a classified explanation.
type RemoteError struct {
	Command string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ParseError means the external command succeeded but its output could not be interpreted.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IoError is a local filesystem failure.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	// *fs.PathError already names the operation and path.
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// MappingError annotates a failure with the local path of the mapping being processed.
type MappingError struct {
	Op   string
	Path string
	Err  error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestion := fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	if command == "bws" {
		suggestion = "Install the Bitwarden Secrets Manager CLI: https://bitwarden.com/help/secrets-manager-cli/"
	}

	return UserError{
		Message:    fmt.Sprintf("Command '%s' not found", command),
		Suggestion: suggestion,
		Err:        err,
	}
}

// Category names the taxonomy bucket an error belongs to, or "" when it is uncategorised.
func Category(err error) string {
	var (
		execErr   *ExecutionError
		remoteErr *RemoteError
		parseErr  *ParseError
		ioErr     *IoError
	)

	switch {
	case errors.As(err, &execErr):
		return "execution"
	case errors.As(err, &remoteErr):
		return "remote"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &ioErr):
		return "io"
	default:
		return ""
	}
}
