// Package validation checks job variables and outbound payloads against JSON schemas.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line for logs and error details.
func (r *ValidationResult) Summary() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile compiles a schema given as a decoded JSON document.
func Compile(schema map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: compiled}, nil
}

// Validate checks doc, which may be a map, a struct or raw JSON bytes.
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(loaderFor(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

// ValidateDocument compiles schema and validates doc in one step.
func ValidateDocument(schema map[string]interface{}, doc interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), loaderFor(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func loaderFor(doc interface{}) gojsonschema.JSONLoader {
	switch v := doc.(type) {
	case []byte:
		return gojsonschema.NewBytesLoader(v)
	case string:
		return gojsonschema.NewStringLoader(v)
	default:
		return gojsonschema.NewGoLoader(v)
	}
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// SchemaCache compiles schemas once per key.
type SchemaCache struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

func NewSchemaCache() *SchemaCache {
	return &SchemaCache{schemas: make(map[string]*Schema)}
}

// Get returns the compiled schema for key, compiling it from raw on first use.
func (c *SchemaCache) Get(key string, raw map[string]interface{}) (*Schema, error) {
	c.mu.RLock()
	s, ok := c.schemas[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", key, err)
	}

	c.mu.Lock()
	c.schemas[key] = s
	c.mu.Unlock()
	return s, nil
}
