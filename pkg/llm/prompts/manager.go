// Package prompts renders the prompt templates embedded in the binary.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Manager handles rendering of prompt templates.
type Manager struct {
	root *template.Template
}

// NewManager parses the embedded templates.
func NewManager() (*Manager, error) {
	root, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing prompt templates: %w", err)
	}
	return &Manager{root: root}, nil
}

// Render executes the named template with the given data.
func (m *Manager) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.root.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

// SummaryData feeds the summarize and image_summary templates.
type SummaryData struct {
	Language  string // display name, e.g. "Telugu"
	Text      string
	LongInput bool // long inputs get bullet structure, short ones a paragraph
}
