// pkg/registry/schema.go
package registry

import "strings"

type TemplateRegistry struct {
	Version     string            `json:"version"`
	LastUpdated string            `json:"lastUpdated"`
	Templates   []MessageTemplate `json:"templates"`
}

type MessageTemplate struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Channel string   `json:"channel,omitempty"`
	Color   int      `json:"color,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Get returns the template with the given id.
func (r *TemplateRegistry) Get(id string) (*MessageTemplate, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Templates {
		if r.Templates[i].ID == id {
			return &r.Templates[i], true
		}
	}
	return nil, false
}

// Render substitutes {placeholder} tokens in the template body.
func (t *MessageTemplate) Render(vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(t.Body)
}
