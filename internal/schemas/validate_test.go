package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImportRecords_Array(t *testing.T) {
	assert.NoError(t, ValidateImportRecords([]byte(`[]`)))
	assert.NoError(t, ValidateImportRecords([]byte(`[{"job_tittle": "DevOps", "company": "Saab"}, 42]`)))
}

func TestValidateImportRecords_NotAnArray(t *testing.T) {
	for _, doc := range []string{`{"job_tittle": "DevOps"}`, `"text"`, `7`, `null`} {
		t.Run(doc, func(t *testing.T) {
			err := ValidateImportRecords([]byte(doc))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, "(root)", validationErr.Errors[0].Field)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidateImportRecords_NotJSON(t *testing.T) {
	err := ValidateImportRecords([]byte(`[{"job_tittle": `))
	require.Error(t, err)

	var loadErr *DocumentLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONBytes_CustomSchema(t *testing.T) {
	schema := `{"type": "object", "required": ["company"]}`

	assert.NoError(t, ValidateJSONBytes(schema, []byte(`{"company": "Saab"}`)))

	err := ValidateJSONBytes(schema, []byte(`{}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 1)
}
