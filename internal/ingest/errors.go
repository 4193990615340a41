package ingest

import (
	"errors"
	"fmt"
)

// ErrNotFound marks legitimate empty lookups (a comic with no chapters, a
// chapter with no pages). It is not a failure.
var ErrNotFound = errors.New("not found")

// ValidationError is raised before any remote call; nothing has been
// written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UploadError reports a blob-store failure for the file at Index in the
// ordered batch. Pages before Index are already persisted.
type UploadError struct {
	Index int
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q (page %d): %v", e.Name, e.Index+1, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports a record-store failure.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
