package ioplug

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError wraps an underlying I/O bounds or permission condition
// surfaced by a backend, such as io.ErrUnexpectedEOF or os.ErrPermission.
type ParseError struct {
	cause error
}

// NewParseError wraps cause as a ParseError.
func NewParseError(cause error) *ParseError {
	return &ParseError{cause: errors.WithStack(cause)}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse Error\n%v", e.cause)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return errors.Cause(e.cause)
}

// AddressNotFoundError means no live descriptor or map covers (all of) the
// requested range.
type AddressNotFoundError struct {
	Lo, Hi uint64
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("Address Not Found\nno live range covers [0x%x,0x%x]", e.Lo, e.Hi)
}

// AddressesOverlapError means an open_at/open_default/map would intersect a
// live range.
type AddressesOverlapError struct {
	Lo, Hi uint64
}

func (e *AddressesOverlapError) Error() string {
	return fmt.Sprintf("Addresses Overlap\nrequested range [0x%x,0x%x] intersects a live range", e.Lo, e.Hi)
}

// HandleNotFoundError means close of a non-live handle.
type HandleNotFoundError struct {
	Handle int
}

func (e *HandleNotFoundError) Error() string {
	return fmt.Sprintf("Handle Not Found\nno live descriptor for handle %d", e.Handle)
}

// IoPluginNotFoundError means no backend accepts the URI.
type IoPluginNotFoundError struct {
	URI string
}

func (e *IoPluginNotFoundError) Error() string {
	return fmt.Sprintf("IO Plugin Not Found\nno plugin accepts uri %q", e.URI)
}

// CustomError is a plugin-specific error message, e.g. "Corrupted base64
// data" or "Invalid S-record at line: N".
type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string {
	return e.Msg
}

// NewCustomError builds a CustomError from a format string.
func NewCustomError(format string, args ...interface{}) *CustomError {
	return &CustomError{Msg: fmt.Sprintf(format, args...)}
}
