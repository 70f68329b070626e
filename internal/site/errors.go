// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import "fmt"

// UploadError reports an object-store failure. When any upload of a
// submission fails, the whole save is abandoned before the document
// write, so no partial page state is ever persisted.
type UploadError struct {
	Key string // storage key of the failed upload, empty if none was attempted
	Err error
}

func (e *UploadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("upload: %v", e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// StoreError reports a document read or write failure.
type StoreError struct {
	Op  string // "load site", "create site", "update site"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
