// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reserved page-record keys. Everything else in the JSON object is a
// theme-defined field.
const (
	keyActive      = "active"
	keyDisplayName = "displayName"
)

// FieldKind discriminates the two value shapes a theme field can take
// in a stored page record.
type FieldKind int

const (
	// KindText is a scalar string: a text field, or the URL of a
	// single-image field once its upload has been resolved.
	KindText FieldKind = iota

	// KindImages is an ordered sequence of image URL slots. A nil slot
	// has never been filled and marshals as JSON null.
	KindImages
)

// FieldValue is one theme-defined field of a page record. The zero value
// is an empty text field.
type FieldValue struct {
	Kind   FieldKind
	Text   string
	Images []*string
}

// TextValue builds a scalar field value.
func TextValue(s string) FieldValue {
	return FieldValue{Kind: KindText, Text: s}
}

// ImagesValue builds an image-sequence field value.
func ImagesValue(slots []*string) FieldValue {
	return FieldValue{Kind: KindImages, Images: slots}
}

// Clone returns a copy that shares no slice memory with the receiver.
func (v FieldValue) Clone() FieldValue {
	if v.Kind != KindImages {
		return v
	}
	slots := make([]*string, len(v.Images))
	for i, s := range v.Images {
		if s != nil {
			u := *s
			slots[i] = &u
		}
	}
	return FieldValue{Kind: KindImages, Images: slots}
}

// MarshalJSON encodes a scalar as a bare string and a sequence as an
// array with nulls for unset slots.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Kind == KindImages {
		return json.Marshal(v.Images)
	}
	return json.Marshal(v.Text)
}

// Page is the record for one page of a site: whether it is publicly
// servable, its navigation label, and its theme-defined fields.
type Page struct {
	Active      bool
	DisplayName string
	Fields      map[string]FieldValue
}

// Clone returns a deep copy of the page record.
func (p Page) Clone() Page {
	fields := make(map[string]FieldValue, len(p.Fields))
	for name, v := range p.Fields {
		fields[name] = v.Clone()
	}
	return Page{Active: p.Active, DisplayName: p.DisplayName, Fields: fields}
}

// Field returns the scalar value of a text field, or "" if the field is
// absent or not scalar.
func (p Page) Field(name string) string {
	if v, ok := p.Fields[name]; ok && v.Kind == KindText {
		return v.Text
	}
	return ""
}

// ImageURLs returns the filled slots of an image-sequence field, in
// order, with unset slots omitted.
func (p Page) ImageURLs(name string) []string {
	v, ok := p.Fields[name]
	if !ok || v.Kind != KindImages {
		return nil
	}
	var urls []string
	for _, s := range v.Images {
		if s != nil {
			urls = append(urls, *s)
		}
	}
	return urls
}

// MarshalJSON flattens the record into a single JSON object: the
// reserved "active" and "displayName" keys plus every theme field at the
// top level. Key order is deterministic (sorted), so re-encoding an
// untouched page reproduces identical bytes.
func (p Page) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(p.Fields)+2)
	obj[keyActive] = p.Active
	obj[keyDisplayName] = p.DisplayName
	for name, v := range p.Fields {
		if name == keyActive || name == keyDisplayName {
			continue
		}
		obj[name] = v
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads the flat object form. A string value becomes a
// scalar field, an array becomes an image sequence; values of any other
// shape are ignored rather than failing the whole document.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("page record: %w", err)
	}

	p.Active = false
	p.DisplayName = ""
	p.Fields = make(map[string]FieldValue, len(raw))

	for name, msg := range raw {
		switch name {
		case keyActive:
			if err := json.Unmarshal(msg, &p.Active); err != nil {
				return fmt.Errorf("page record %q: %w", keyActive, err)
			}
		case keyDisplayName:
			if err := json.Unmarshal(msg, &p.DisplayName); err != nil {
				return fmt.Errorf("page record %q: %w", keyDisplayName, err)
			}
		default:
			trimmed := bytes.TrimSpace(msg)
			if len(trimmed) == 0 {
				continue
			}
			switch trimmed[0] {
			case '"':
				var s string
				if err := json.Unmarshal(trimmed, &s); err != nil {
					return fmt.Errorf("page field %q: %w", name, err)
				}
				p.Fields[name] = TextValue(s)
			case '[':
				var slots []*string
				if err := json.Unmarshal(trimmed, &slots); err != nil {
					return fmt.Errorf("page field %q: %w", name, err)
				}
				p.Fields[name] = ImagesValue(slots)
			}
		}
	}
	return nil
}
