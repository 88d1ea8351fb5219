package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRegistry = `{
	"version": "1",
	"lastUpdated": "2026-09-01",
	"templates": [
		{"id": "welcome_post", "title": "Welcome!", "body": "Welcome to the academy, {name}!", "channel": "welcome"},
		{"id": "rules_post", "body": "Be kind."}
	]
}`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(validRegistry))
	require.NoError(t, err)
	assert.Equal(t, "1", reg.Version)
	require.Len(t, reg.Templates, 2)

	tmpl, ok := reg.Get("welcome_post")
	require.True(t, ok)
	assert.Equal(t, "Welcome!", tmpl.Title)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestGetOnNilRegistry(t *testing.T) {
	// A failed registry load leaves callers holding nil.
	var reg *TemplateRegistry
	tmpl, ok := reg.Get("welcome_post")
	assert.False(t, ok)
	assert.Nil(t, tmpl)
}

func TestParseRegistryRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing templates", `{"version": "1"}`},
		{"template without id", `{"version": "1", "templates": [{"body": "x"}]}`},
		{"template without body", `{"version": "1", "templates": [{"id": "x"}]}`},
		{"empty body", `{"version": "1", "templates": [{"id": "x", "body": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRender(t *testing.T) {
	tmpl := MessageTemplate{Body: "Hello {name}, see {link} for details."}
	out := tmpl.Render(map[string]string{"name": "ByteWolf", "link": "https://academy.example"})
	assert.Equal(t, "Hello ByteWolf, see https://academy.example for details.", out)
}
