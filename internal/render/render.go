// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns stored page records into public HTML using the
// embedded theme templates. Each theme directory carries a navbar
// partial plus one template per page name; scalar fields are escaped by
// html/template and long-form text goes through the Markdown converter.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"vowsite/internal/markdown"
	"vowsite/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// NavItem is one entry of the public navigation bar.
type NavItem struct {
	Page        string
	DisplayName string
	URL         string
	Current     bool
}

// PageView is the data handed to a page template.
type PageView struct {
	SiteID string
	Page   string
	Title  string
	Data   models.Page
	Nav    []NavItem
}

// Renderer holds one parsed template set per theme.
type Renderer struct {
	themes map[string]*template.Template
}

var funcMap = template.FuncMap{
	// markdown renders a long-form text field. On a conversion error the
	// source is emitted escaped rather than dropping the field.
	"markdown": func(source string) template.HTML {
		html, err := markdown.ToHTML(source)
		if err != nil {
			return template.HTML(template.HTMLEscapeString(source))
		}
		return template.HTML(html)
	},
}

// New parses every theme directory under the embedded templates root.
func New() (*Renderer, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &Renderer{themes: make(map[string]*template.Template)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub, err := fs.Sub(templatesFS, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", e.Name(), err)
		}
		tmpl, err := template.New(e.Name()).Funcs(funcMap).ParseFS(sub, "*.html")
		if err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", e.Name(), err)
		}
		r.themes[e.Name()] = tmpl
	}

	if len(r.themes) == 0 {
		return nil, fmt.Errorf("no theme templates embedded")
	}
	return r, nil
}

// Page renders one page of a site with the given theme. Unknown themes
// and pages without a template are errors; the handler turns them into
// a not-found response, mirroring how a missing template component was
// treated before.
func (r *Renderer) Page(theme, page string, view *PageView) ([]byte, error) {
	set, ok := r.themes[theme]
	if !ok {
		return nil, fmt.Errorf("theme %q not found", theme)
	}
	name := page + ".html"
	if set.Lookup(name) == nil {
		return nil, fmt.Errorf("theme %q has no template for page %q", theme, page)
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, view); err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", theme, page, err)
	}
	return buf.Bytes(), nil
}

// HasPage reports whether a theme ships a template for the page.
func (r *Renderer) HasPage(theme, page string) bool {
	set, ok := r.themes[theme]
	return ok && set.Lookup(page+".html") != nil
}
