package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSynthesisReport_Valid(t *testing.T) {
	doc := `{
		"title": "Inside Go Channels",
		"summary": "Channels are typed conduits for goroutine communication.",
		"references": [
			{"title": "Effective Go", "url": "https://go.dev/doc/effective_go"}
		]
	}`

	assert.NoError(t, ValidateSynthesisReport(doc))
}

func TestValidateSynthesisReport_EmptyReferences(t *testing.T) {
	doc := `{"title": "t", "summary": "s", "references": []}`
	assert.NoError(t, ValidateSynthesisReport(doc))
}

func TestValidateSynthesisReport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing title", doc: `{"summary": "s", "references": []}`},
		{name: "missing summary", doc: `{"title": "t", "references": []}`},
		{name: "missing references", doc: `{"title": "t", "summary": "s"}`},
		{name: "empty title", doc: `{"title": "", "summary": "s", "references": []}`},
		{name: "reference missing url", doc: `{"title": "t", "summary": "s", "references": [{"title": "r"}]}`},
		{name: "unexpected top-level field", doc: `{"title": "t", "summary": "s", "references": [], "extra": 1}`},
		{name: "references not an array", doc: `{"title": "t", "summary": "s", "references": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSynthesisReport(tt.doc)
			require.Error(t, err)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateSynthesisReport_MalformedJSON(t *testing.T) {
	err := ValidateSynthesisReport(`{"title": "t",`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_MessageListsFields(t *testing.T) {
	err := ValidateSynthesisReport(`{"references": []}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "summary")
}
