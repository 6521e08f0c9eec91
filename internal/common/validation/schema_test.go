// internal/common/validation/schema_test.go
package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["id", "limit"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"limit": {"type": "integer", "minimum": 1}
	}
}`

func TestSchema_ValidateBytes(t *testing.T) {
	s := MustCompile(testSchema)

	tests := []struct {
		name   string
		doc    string
		valid  bool
		fields []string
	}{
		{"valid", `{"id": "a", "limit": 3}`, true, nil},
		{"missing required", `{"id": "a"}`, false, []string{"(root)"}},
		{"bad limit", `{"id": "a", "limit": 0}`, false, []string{"limit"}},
		{"two problems", `{"id": "", "limit": "x"}`, false, []string{"id", "limit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateBytes([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)

			var fields []string
			for _, e := range res.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Code)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestSchema_ValidateValue(t *testing.T) {
	s := MustCompile(testSchema)
	res, err := s.ValidateValue(map[string]interface{}{"id": "a", "limit": 2})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.NoError(t, res.Err())
}

func TestSchema_NotJSON(t *testing.T) {
	s := MustCompile(testSchema)
	_, err := s.ValidateBytes([]byte(`{not json`))
	assert.Error(t, err)
}

func TestValidationResult_Err(t *testing.T) {
	res := &ValidationResult{Errors: []ValidationError{{Field: "limit", Message: "too small"}}}
	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Contains(t, err.Error(), "limit: too small")

	var nilResult *ValidationResult
	assert.NoError(t, nilResult.Err())
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`{`) })
}
