package config

import (
	"strings"

	dserrors "github.com/dusk-labs/dusk-warden/internal/errors"
	"github.com/xeipuuv/gojsonschema"
)

const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["secrets"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "enum": [0, 1]},
    "bws": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "command": {"type": "string", "minLength": 1},
        "server_url": {"type": "string"}
      }
    },
    "secrets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path", "id"],
        "additionalProperties": false,
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "id": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(definitionSchema)

// validateSchema checks a decoded YAML document against definitionSchema.
func validateSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return dserrors.ConfigError{
			Message:    "schema validation error: " + err.Error(),
			Suggestion: "Check that the configuration is a YAML mapping",
		}
	}
	if result.Valid() {
		return nil
	}

	var messages []string
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	first := result.Errors()[0]
	return dserrors.ConfigError{
		Field:      first.Field(),
		Message:    "schema validation failed:\n  - " + strings.Join(messages, "\n  - "),
		Suggestion: "Each entry under 'secrets' needs a non-empty 'path' and 'id'",
	}
}
