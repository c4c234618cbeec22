package schemas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range []string{ResumeExtraction, Resume} {
		t.Run(name, func(t *testing.T) {
			raw, err := Raw(name)
			require.NoError(t, err)

			var v map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(raw), &v), "schema file should be valid JSON")
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestRaw_Unknown(t *testing.T) {
	_, err := Raw("nonexistent.schema.json")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateResumeExtraction(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{name: "empty object", json: `{}`},
		{name: "skills only", json: `{"skills":["sql"]}`},
		{name: "nulls tolerated", json: `{"personalInfo":null,"skills":null,"experience":[{"company":"Acme","endDate":null}]}`},
		{
			name: "full shape",
			json: `{
				"personalInfo": {"name": "Ada", "email": "ada@example.com"},
				"experience": [{"company": "Acme", "position": "Engineer", "startDate": "2020-01", "endDate": "present", "description": ["Built things"]}],
				"education": [{"institution": "State U", "degree": "BS", "field": "CS", "graduationDate": "2019", "honors": ["Cum laude"]}],
				"skills": ["Python", "SQL"],
				"projects": [{"name": "Tracker", "description": "A tool", "technologies": ["Go"], "highlights": []}],
				"achievements": ["Increased throughput by 40%"]
			}`,
		},
		{name: "single value for a list", json: `{"skills":"sql","experience":[{"description":"Built APIs"}]}`},
		{name: "numbers for text", json: `{"education":[{"institution":"MIT","gpa":3.9,"graduationDate":2019}]}`},
		{name: "skills must not be an object", json: `{"skills":{"name":"sql"}}`, wantError: true},
		{name: "experience must be a list", json: `{"experience":{"company":"Acme"}}`, wantError: true},
		{name: "description items are scalars", json: `{"experience":[{"description":[{"text":"a"}]}]}`, wantError: true},
		{name: "top level must be an object", json: `["sql"]`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResumeExtraction(tt.json)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateResume(t *testing.T) {
	valid := `{
		"personalInfo": {"name": "Ada"},
		"style": "modern",
		"targetRole": "Engineer",
		"experience": [], "education": [], "skills": [], "projects": [], "achievements": []
	}`
	assert.NoError(t, ValidateResume(valid))

	err := ValidateResume(`{"personalInfo": {"name": ""}, "skills": []}`)
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := ValidateResumeExtraction("{ invalid json }")
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
