// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

const registrySchema = `{
	"type": "object",
	"required": ["version", "templates"],
	"properties": {
		"version": {"type": "string"},
		"lastUpdated": {"type": "string"},
		"templates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "body"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"body": {"type": "string", "minLength": 1},
					"channel": {"type": "string"},
					"color": {"type": "integer"},
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// LoadRegistry reads and validates the message template registry.
func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

// ParseRegistry validates the raw registry document against the schema
// before unmarshaling, so a malformed template file fails at startup with
// a pointed message instead of posting broken embeds later.
func ParseRegistry(data []byte) (*TemplateRegistry, error) {
	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("template registry validation failed: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return nil, fmt.Errorf("invalid template registry: %v", errs)
	}

	var reg TemplateRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}
