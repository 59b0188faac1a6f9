// Package validation checks JSON request bodies against embedded JSON schemas.
package validation

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

// DrinkSchema validates drink create and edit bodies
const DrinkSchema = "https://coffee-shop-api/schemas/drink.json"

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds compiled schemas by their $id
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// SchemaError lists the violations of a document against a schema
type SchemaError struct {
	SchemaID   string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("document does not match schema %s: %s", e.SchemaID, strings.Join(e.Violations, "; "))
}

// NewValidator compiles every embedded schema
func NewValidator() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("cannot read schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		raw, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read schema %s: %w", entry.Name(), err)
		}
		var header struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("parse error in schema %s: %w", entry.Name(), err)
		}
		if header.ID == "" {
			return nil, fmt.Errorf("schema %s does not contain $id", entry.Name())
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", header.ID, err)
		}
		v.schemas[header.ID] = schema
	}
	return v, nil
}

// MustNewValidator is NewValidator that panics on error
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// HasSchema returns true if schemaID is known
func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// Validate checks document against schemaID. Violations are reported as *SchemaError.
func (v *Validator) Validate(schemaID string, document []byte) error {
	schema, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("unknown schema %s", schemaID)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("cannot validate against %s: %w", schemaID, err)
	}
	if result.Valid() {
		return nil
	}
	schemaErr := &SchemaError{SchemaID: schemaID}
	for _, desc := range result.Errors() {
		schemaErr.Violations = append(schemaErr.Violations, desc.String())
	}
	return schemaErr
}
