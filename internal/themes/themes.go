// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package themes holds the static theme registry: which pages each theme
// offers and which editable fields each page carries. The registry is
// parsed once from an embedded YAML file at startup and never mutated.
package themes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var themesYAML []byte

// FieldType classifies an editable field on a page.
type FieldType string

const (
	FieldText   FieldType = "text"   // scalar string field
	FieldImage  FieldType = "image"  // single image, stored as a URL
	FieldImages FieldType = "images" // ordered image sequence
)

// Field describes one editable value on a page. In YAML a field is
// either a bare string (a text field) or a mapping with name, type, and
// an optional max slot count for image sequences.
type Field struct {
	Name string    `json:"name" yaml:"name"`
	Type FieldType `json:"type" yaml:"type"`
	Max  int       `json:"max,omitempty" yaml:"max"`
}

// UnmarshalYAML accepts the shorthand bare-string form for text fields.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Name = value.Value
		f.Type = FieldText
		return nil
	}

	type plain Field
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	if f.Type == "" {
		f.Type = FieldText
	}
	return nil
}

// PageConfig describes one page of a theme.
type PageConfig struct {
	Name            string  `json:"name" yaml:"name"`
	DisplayName     string  `json:"displayName" yaml:"displayName"`
	ActiveByDefault bool    `json:"activeByDefault" yaml:"activeByDefault"`
	Fields          []Field `json:"fields" yaml:"fields"`
}

// Theme is a named bundle of page configurations, in declaration order.
type Theme struct {
	Name  string       `json:"name" yaml:"name"`
	Pages []PageConfig `json:"pages" yaml:"pages"`
}

// Page looks up a page configuration by name.
func (t *Theme) Page(name string) (*PageConfig, bool) {
	for i := range t.Pages {
		if t.Pages[i].Name == name {
			return &t.Pages[i], true
		}
	}
	return nil, false
}

// PageOrder returns the page names in declaration order. Navigation
// rendering follows this order.
func (t *Theme) PageOrder() []string {
	names := make([]string, len(t.Pages))
	for i, p := range t.Pages {
		names[i] = p.Name
	}
	return names
}

// Registry is the immutable set of themes known to the application.
type Registry struct {
	themes []Theme
	byName map[string]*Theme
}

// Load parses the embedded theme configuration. Called once at startup.
func Load() (*Registry, error) {
	var doc struct {
		Themes []Theme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(themesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse themes: %w", err)
	}
	if len(doc.Themes) == 0 {
		return nil, fmt.Errorf("parse themes: no themes defined")
	}

	r := &Registry{
		themes: doc.Themes,
		byName: make(map[string]*Theme, len(doc.Themes)),
	}
	for i := range r.themes {
		t := &r.themes[i]
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("parse themes: duplicate theme %q", t.Name)
		}
		r.byName[t.Name] = t
	}
	return r, nil
}

// Names returns all theme names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.themes))
	for i, t := range r.themes {
		names[i] = t.Name
	}
	return names
}

// Themes returns all themes in declaration order.
func (r *Registry) Themes() []Theme {
	return r.themes
}

// Theme looks up a theme by name.
func (r *Registry) Theme(name string) (*Theme, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Page looks up a page configuration for (theme, page). Either lookup
// may miss; callers fall back to derived defaults.
func (r *Registry) Page(theme, page string) (*PageConfig, bool) {
	t, ok := r.byName[theme]
	if !ok {
		return nil, false
	}
	return t.Page(page)
}
