package knowledge

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// configSchema constrains knowledge config files before they reach the
// compiler, so a typoed field fails loudly instead of scoring everything 0.
const configSchema = `{
  "type": "object",
  "required": ["ceilings", "points"],
  "properties": {
    "ceilings": {
      "type": "object",
      "required": ["read_duration", "feedback_duration", "over_or_replay"],
      "properties": {
        "read_duration": {"type": "number", "exclusiveMinimum": 0},
        "feedback_duration": {"type": "number", "exclusiveMinimum": 0},
        "over_or_replay": {"type": "number", "exclusiveMinimum": 0}
      },
      "additionalProperties": false
    },
    "points": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "practice_weights"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "read_events": {"type": "array", "items": {"type": "string"}},
          "explore_events": {"type": "array", "items": {"type": "string"}},
          "practice_weights": {
            "type": "object",
            "additionalProperties": {"type": "number", "minimum": 0}
          },
          "feedback_questions": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 5}},
          "negative": {"type": "boolean"},
          "explore_ceiling": {"type": "number", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(configSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://knowledge-config.json", def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://knowledge-config.json")
	})
	return compiledSchema, compileErr
}

// stringifyKeys rewrites every map in the document to string keys so the
// value survives a trip through encoding/json. yaml.v3 decodes non-string
// keys (the integer-keyed practice_weights map) as map[interface{}]interface{},
// which json.Marshal refuses.
func stringifyKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = stringifyKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = stringifyKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = stringifyKeys(val)
		}
		return out
	default:
		return v
	}
}

// validateSpec checks a raw YAML document against the config schema. The
// document is round-tripped through encoding/json because the validator
// expects JSON-shaped values.
func validateSpec(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	jsonBytes, err := json.Marshal(stringifyKeys(doc))
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	schema, err := getSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
