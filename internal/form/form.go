// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package form decodes a multipart editor submission into a typed intent:
// which site and page are being saved, the activity flag, scalar text
// fields, and the binary attachments still waiting for upload. The
// decoder knows nothing about persistence.
package form

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
)

// Reserved control keys, extracted from the field set during decoding.
const (
	keySiteID   = "siteId"
	keyTemplate = "template"
	keyPage     = "page"
	keyActive   = "active"
)

// imageSlotKey matches indexed multi-image keys like "images[3]".
var imageSlotKey = regexp.MustCompile(`^images\[(\d+)\]$`)

// ValidationError reports a bad or missing required request field.
// User-correctable; surfaced as a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Upload is a binary attachment pending upload to object storage.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Submission is the normalized intent of one editor save: one page of
// one site, with its scalar fields and pending image uploads.
type Submission struct {
	SiteID   string
	Template string
	Page     string
	Active   bool

	// Scalars holds text field values, keyed by field name.
	Scalars map[string]string

	// Uploads holds single-image attachments, keyed by field name.
	Uploads map[string]Upload

	// Slots holds multi-image attachments, keyed by slot index. Indices
	// may be sparse; absent indices mean "no change to that slot".
	Slots map[int]Upload
}

// Decode turns a parsed multipart form into a Submission.
//
// Zero-length attachments are skipped silently: the originating form
// library submits empty parts for untouched file inputs, and those must
// read as "no change", never as explicit nulls. Image slots change only
// when a non-empty binary arrives for that exact index, so text values
// under slot keys are ignored too.
func Decode(mf *multipart.Form) (*Submission, error) {
	sub := &Submission{
		Scalars: make(map[string]string),
		Uploads: make(map[string]Upload),
		Slots:   make(map[int]Upload),
	}

	value := func(key string) string {
		if vs := mf.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	sub.SiteID = value(keySiteID)
	if sub.SiteID == "" {
		return nil, &ValidationError{Msg: "Site ID is required"}
	}
	sub.Template = value(keyTemplate)
	if sub.Template == "" {
		return nil, &ValidationError{Msg: "Template is required"}
	}
	sub.Page = value(keyPage)
	if sub.Page == "" {
		return nil, &ValidationError{Msg: "Page is required"}
	}
	sub.Active = value(keyActive) == "true"

	// Remaining text parts are scalar page fields, verbatim.
	for key, vs := range mf.Value {
		switch key {
		case keySiteID, keyTemplate, keyPage, keyActive:
			continue
		}
		if imageSlotKey.MatchString(key) {
			continue
		}
		if len(vs) > 0 {
			sub.Scalars[key] = vs[0]
		}
	}

	// Binary parts: indexed keys go to sparse image slots, everything
	// else is a single-image field.
	for key, headers := range mf.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		if fh.Size == 0 {
			continue
		}

		up, err := readUpload(fh)
		if err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", key, err)
		}

		if m := imageSlotKey.FindStringSubmatch(key); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err != nil || idx < 0 {
				continue
			}
			sub.Slots[idx] = up
		} else {
			sub.Uploads[key] = up
		}
	}

	return sub, nil
}

// readUpload reads an attachment fully into memory. The HTTP layer caps
// request body size before the decoder runs.
func readUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
