package comicvine

import (
	"errors"
	"fmt"
)

// Sentinel errors for Comic Vine operations.
var (
	ErrNotConfigured   = errors.New("comicvine: api key not configured")
	ErrTransport       = errors.New("comicvine: transport failure")
	ErrDecode          = errors.New("comicvine: invalid JSON response")
	ErrNotFound        = errors.New("comicvine: not found")
	ErrInvalidID       = errors.New("comicvine: invalid issue id")
	ErrMalformedRecord = errors.New("comicvine: malformed record")
	ErrDateParse       = errors.New("comicvine: unparseable publication date")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "query", "find_by_title", "find_by_id", "resolve_volume", "build_meta"
	Target string // Request path or URL, or the issue id for build_meta
	Status int    // HTTP status when the service answered with a failure
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("comicvine %s [%s] (http %d): %v", e.Op, e.Target, e.Status, e.Err)
	}
	return fmt.Sprintf("comicvine %s [%s]: %v", e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, target string, err error) error {
	return &Error{Op: op, Target: target, Err: err}
}
