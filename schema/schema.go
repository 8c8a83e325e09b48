// Package schema validates canonical machine documents against the embedded
// JSON Schema. The stores use it on load to decide whether stored content is
// well-formed before deserializing it.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/machine.json
var schemaFS embed.FS

// Error is a single schema violation.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e Error) String() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Validator checks documents against the embedded machine document schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	data, err := schemaFS.ReadFile("schemas/machine.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("machine.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := c.Compile("machine.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// ValidateBytes parses raw JSON and validates it. A parse failure is reported
// as a single Error.
func (v *Validator) ValidateBytes(data []byte) []Error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []Error{{Message: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	return v.ValidateDocument(doc)
}

// ValidateDocument validates an already-parsed JSON document. A nil result
// means the document conforms.
func (v *Validator) ValidateDocument(doc any) []Error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Error{{Message: err.Error()}}
	}
	return collectErrors(ve)
}

// collectErrors flattens a ValidationError tree into its leaf violations.
func collectErrors(ve *jsonschema.ValidationError) []Error {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return []Error{{Path: path, Message: ve.Error()}}
	}

	var errs []Error
	for _, cause := range ve.Causes {
		errs = append(errs, collectErrors(cause)...)
	}
	return errs
}
