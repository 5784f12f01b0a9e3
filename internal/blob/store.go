package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is matched (errors.Is) by failures caused by a missing object.
var ErrNotFound = errors.New("blob: object not found")

// CodeNotFound is the provider code reported for missing objects.
const CodeNotFound = "404"

// CodeUnknown is reported when a failure carries no provider code.
const CodeUnknown = "500"

// Store is a remote object store.
type Store interface {
	// Download writes the object to localPath, replacing any existing file.
	Download(ctx context.Context, loc Locator, localPath string) error
	// Upload stores the content of localPath as the object.
	Upload(ctx context.Context, localPath string, loc Locator) error
}

// Error is a failed store operation with the provider's error code.
type Error struct {
	Op       string // "download" or "upload"
	Locator  Locator
	Code     string
	NotFound bool
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("blob: %s %s failed (%s): %v", e.Op, e.Locator, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match not-found failures.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.NotFound
}

// NotFoundError builds the Error reported for a missing object.
func NotFoundError(op string, loc Locator, err error) *Error {
	return &Error{Op: op, Locator: loc, Code: CodeNotFound, NotFound: true, Err: err}
}

// Wrap returns err unchanged when it already is an *Error, otherwise wraps it
// as a failure of op with CodeUnknown.
func Wrap(op string, loc Locator, err error) error {
	if err == nil {
		return nil
	}
	var blobErr *Error
	if errors.As(err, &blobErr) {
		return err
	}
	return &Error{Op: op, Locator: loc, Code: CodeUnknown, Err: err}
}

// ErrorCode returns the provider code carried by err, or CodeUnknown.
func ErrorCode(err error) string {
	var blobErr *Error
	if errors.As(err, &blobErr) && blobErr.Code != "" {
		return blobErr.Code
	}
	return CodeUnknown
}
