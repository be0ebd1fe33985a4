package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates section settings payloads against their schema.
type ConfigValidator interface {
	Validate(def SectionDefinition, settings map[string]any) error
}

// JSONSchemaValidator compiles section schemas and validates settings maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided settings satisfy the section schema.
func (v *JSONSchemaValidator) Validate(def SectionDefinition, settings map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def.Code, def.Schema)
	if err != nil {
		return err
	}
	var payload map[string]any
	if settings == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("dashboard: marshal settings for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize settings for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: settings for %s failed validation: %w", def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(code string, raw map[string]any) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	compiled, err := compileSchema(code+".json", raw)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.compiled[code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func compileSchema(name string, raw map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", name, err)
	}
	return compiled, nil
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(SectionDefinition, map[string]any) error { return nil }

// bankInfoSchema describes the minimum shape the bank info payload must carry
// before normalization runs. Record dates stay plain strings here; their
// parsing is the normalizer's job.
var bankInfoSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"accountData": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"bankName", "accounts"},
				"properties": map[string]any{
					"bankName": map[string]any{"type": "string"},
					"accounts": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"accountNumber", "balance"},
						},
					},
				},
			},
		},
		"billData": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"description", "amountDue", "dueDate"},
				"properties": map[string]any{
					"dueDate": map[string]any{"type": "string"},
				},
			},
		},
		"transactionData": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"date", "transactions"},
				"properties": map[string]any{
					"date": map[string]any{"type": "string"},
				},
			},
		},
		"creditScoreData": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"creditScore", "reportDate"},
				"properties": map[string]any{
					"creditScore": map[string]any{"type": "integer"},
					"reportDate":  map[string]any{"type": "string"},
				},
			},
		},
	},
}

// SchemaPayloadValidator checks fetched bank info against bankInfoSchema
// before the session hands it to normalization.
type SchemaPayloadValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchemaPayloadValidator builds the default payload validator.
func NewSchemaPayloadValidator() *SchemaPayloadValidator {
	return &SchemaPayloadValidator{}
}

// Validate reports whether the raw payload has the expected structure.
func (v *SchemaPayloadValidator) Validate(raw RawAppData) error {
	v.once.Do(func() {
		v.schema, v.err = compileSchema("bankinfo.json", bankInfoSchema)
	})
	if v.err != nil {
		return v.err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("dashboard: marshal bank info payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("dashboard: normalize bank info payload: %w", err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: bank info payload failed validation: %w", err)
	}
	return nil
}
