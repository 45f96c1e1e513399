package validation

import (
	"strings"
	"testing"
)

const personSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"name": {
			"type": "string"
		},
		"age": {
			"type": "integer",
			"minimum": 0
		}
	},
	"required": ["name"]
}`

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	validator, err := NewSchemaValidator(map[string][]byte{
		"person": []byte(personSchema),
	})
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name:      "valid data",
			data:      `{"name": "Amina", "age": 12}`,
			wantError: false,
		},
		{
			name:      "missing required field",
			data:      `{"age": 12}`,
			wantError: true,
			errorMsg:  "schema validation failed",
		},
		{
			name:      "wrong type",
			data:      `{"name": "Amina", "age": "twelve"}`,
			wantError: true,
			errorMsg:  "schema validation failed",
		},
		{
			name:      "negative age",
			data:      `{"name": "Amina", "age": -1}`,
			wantError: true,
			errorMsg:  "schema validation failed",
		},
		{
			name:      "malformed JSON",
			data:      `{"name":`,
			wantError: true,
			errorMsg:  "failed to parse JSON data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes([]byte(tt.data), "person")
			if tt.wantError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	validator, err := NewSchemaValidator(nil)
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}

	if err := validator.ValidateBytes([]byte(`{}`), "missing"); err == nil {
		t.Fatal("Expected error for unknown schema, got nil")
	}
}

func TestSchemaValidator_BadSchema(t *testing.T) {
	_, err := NewSchemaValidator(map[string][]byte{
		"broken": []byte(`{"type": 42}`),
	})
	if err == nil {
		t.Fatal("Expected error for invalid schema, got nil")
	}
}
