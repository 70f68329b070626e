// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site implements the page save pipeline: resolve a decoded
// submission against the stored site document, upload new binaries,
// merge one page's worth of data, and persist the result.
//
// There is no lock on a site document. Two concurrent saves to the same
// site race on the read-modify-write and the later write wins; with a
// single operator editing a site at a time this is acceptable, and the
// final document write is still a single store operation.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vowsite/internal/form"
	"vowsite/internal/models"
	"vowsite/internal/themes"
)

// imagesField is the canonical name of the multi-image sequence field,
// matching the "images[<n>]" submission keys.
const imagesField = "images"

// maxImageSlots bounds slot indices for pages whose theme does not
// declare an image-sequence limit. The merged sequence is allocated up
// to the highest submitted index, so indices must stay small.
const maxImageSlots = 24

// SiteStore is the document-store surface the engine needs.
type SiteStore interface {
	FindBySiteID(siteID string) (*models.Site, error)
	Create(site *models.Site) (*models.Site, error)
	Update(id uuid.UUID, template string, data models.SiteData) (*models.Site, error)
}

// Uploader stores bytes and returns a durable public URL.
type Uploader interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Engine runs the save pipeline. uploader may be nil when object storage
// is not configured; submissions without attachments still save.
type Engine struct {
	store    SiteStore
	uploader Uploader
	themes   *themes.Registry

	// now stamps upload keys; swapped in tests for deterministic keys.
	now func() time.Time
}

// New creates a save engine.
func New(store SiteStore, uploader Uploader, reg *themes.Registry) *Engine {
	return &Engine{store: store, uploader: uploader, themes: reg, now: time.Now}
}

// SavePage runs the full pipeline for one submission:
// load → resolve display name → upload → merge → persist.
//
// Scalar fields are sticky: a field absent from the submission keeps its
// previously stored value, same as image slots and the display name. A
// submitted field always wins.
func (e *Engine) SavePage(ctx context.Context, sub *form.Submission) error {
	if sub.SiteID == "" {
		return &form.ValidationError{Msg: "Site ID is required"}
	}

	limit := e.slotLimit(sub.Template, sub.Page)
	for idx := range sub.Slots {
		if idx >= limit {
			return &form.ValidationError{Msg: fmt.Sprintf("image slot %d exceeds the page limit of %d", idx, limit)}
		}
	}

	existing, err := e.store.FindBySiteID(sub.SiteID)
	if err != nil {
		return &StoreError{Op: "load site", Err: err}
	}

	data := models.SiteData{}
	if existing != nil {
		data = existing.Data.Clone()
	}
	prev := data[sub.Page]

	displayName := e.resolveDisplayName(prev, sub)

	singles, slots, err := e.uploadAll(ctx, sub)
	if err != nil {
		return err
	}

	data[sub.Page] = mergePage(prev, sub, displayName, singles, slots)

	if existing == nil {
		_, err = e.store.Create(&models.Site{
			SiteID:   sub.SiteID,
			Template: sub.Template,
			Data:     data,
		})
		if err != nil {
			return &StoreError{Op: "create site", Err: err}
		}
		return nil
	}

	// Template is rewritten on every page save, even though it is a
	// site-wide setting: last writer wins.
	_, err = e.store.Update(existing.ID, sub.Template, data)
	if err != nil {
		return &StoreError{Op: "update site", Err: err}
	}
	return nil
}

// slotLimit returns the highest slot count the page accepts: the
// theme-declared max of its image-sequence field, or maxImageSlots for
// undeclared pages and fields without a max.
func (e *Engine) slotLimit(template, page string) int {
	if pc, ok := e.themes.Page(template, page); ok {
		for _, f := range pc.Fields {
			if f.Name == imagesField && f.Type == themes.FieldImages && f.Max > 0 {
				return f.Max
			}
		}
	}
	return maxImageSlots
}

// resolveDisplayName keeps a previously stored name, falls back to the
// theme configuration, and finally derives a label from the page slug.
func (e *Engine) resolveDisplayName(prev models.Page, sub *form.Submission) string {
	if prev.DisplayName != "" {
		return prev.DisplayName
	}
	if pc, ok := e.themes.Page(sub.Template, sub.Page); ok && pc.DisplayName != "" {
		return pc.DisplayName
	}
	return capitalize(sub.Page)
}

// uploadAll pushes every pending attachment to object storage
// concurrently and maps each to its public URL. All uploads must succeed
// or the save fails with the first error; nothing is written to the
// document store on a partially uploaded page.
func (e *Engine) uploadAll(ctx context.Context, sub *form.Submission) (map[string]string, map[int]string, error) {
	if len(sub.Uploads) == 0 && len(sub.Slots) == 0 {
		return nil, nil, nil
	}
	if e.uploader == nil {
		return nil, nil, &UploadError{Err: errors.New("object storage is not configured")}
	}

	// One timestamp per submission. Keys stay unique because every
	// field and slot has a distinct name within a page.
	ts := e.now().UnixMilli()

	var mu sync.Mutex
	singles := make(map[string]string, len(sub.Uploads))
	slots := make(map[int]string, len(sub.Slots))
	var uploaded []string

	g, gctx := errgroup.WithContext(ctx)
	for field, up := range sub.Uploads {
		field, up := field, up
		key := e.objectKey(sub, field, up, ts)
		g.Go(func() error {
			url, err := e.put(gctx, key, up)
			if err != nil {
				return err
			}
			mu.Lock()
			singles[field] = url
			uploaded = append(uploaded, key)
			mu.Unlock()
			return nil
		})
	}
	for idx, up := range sub.Slots {
		idx, up := idx, up
		key := e.objectKey(sub, fmt.Sprintf("%s[%d]", imagesField, idx), up, ts)
		g.Go(func() error {
			url, err := e.put(gctx, key, up)
			if err != nil {
				return err
			}
			mu.Lock()
			slots[idx] = url
			uploaded = append(uploaded, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Nothing was written to the document store, so objects from
		// the uploads that did finish are orphans. Discard them.
		e.discard(context.WithoutCancel(ctx), uploaded)
		return nil, nil, err
	}
	return singles, slots, nil
}

// objectKey builds the deterministic storage key for one attachment.
func (e *Engine) objectKey(sub *form.Submission, fieldKey string, up form.Upload, ts int64) string {
	return fmt.Sprintf("%s/%s/%s_%d.%s", sub.SiteID, sub.Page, fieldKey, ts, extension(up.Filename))
}

// put uploads one attachment under its storage key.
func (e *Engine) put(ctx context.Context, key string, up form.Upload) (string, error) {
	url, err := e.uploader.Put(ctx, key, up.ContentType, bytes.NewReader(up.Data), int64(len(up.Data)))
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	return url, nil
}

// discard best-effort deletes objects uploaded before a failed save.
// Uploaders without delete support just leave the orphans behind.
func (e *Engine) discard(ctx context.Context, keys []string) {
	d, ok := e.uploader.(interface {
		Delete(ctx context.Context, key string) error
	})
	if !ok {
		return
	}
	for _, key := range keys {
		if err := d.Delete(ctx, key); err != nil {
			slog.Warn("discard orphaned upload failed", "key", key, "error", err)
		}
	}
}

// mergePage builds the new page record from the previous one and the
// submission. The previous record is the base, so unsubmitted fields
// carry forward; submitted scalars and resolved upload URLs overlay it,
// and image slots overwrite their exact positions in a copy of the
// previous sequence, extended as needed.
func mergePage(prev models.Page, sub *form.Submission, displayName string, singles map[string]string, slots map[int]string) models.Page {
	merged := prev.Clone()
	merged.Active = sub.Active
	merged.DisplayName = displayName

	for name, v := range sub.Scalars {
		merged.Fields[name] = models.TextValue(v)
	}
	for name, url := range singles {
		merged.Fields[name] = models.TextValue(url)
	}

	if len(slots) > 0 {
		maxIdx := 0
		for idx := range slots {
			if idx > maxIdx {
				maxIdx = idx
			}
		}

		var seq []*string
		if cur, ok := merged.Fields[imagesField]; ok && cur.Kind == models.KindImages {
			seq = cur.Images
		}
		// Final length is max(previous length, highest index + 1); new
		// positions start as unset slots.
		for len(seq) < maxIdx+1 {
			seq = append(seq, nil)
		}
		for idx, url := range slots {
			u := url
			seq[idx] = &u
		}
		merged.Fields[imagesField] = models.ImagesValue(seq)
	}

	return merged
}

// extension returns the lowercased filename extension without the dot,
// or "bin" when the filename has none.
func extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}

// capitalize upper-cases the first rune of a page slug, the fallback
// navigation label for pages a theme does not declare.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
