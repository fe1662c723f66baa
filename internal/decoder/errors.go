// ABOUTME: File-scoped decode errors
// ABOUTME: Decompression, format, and parse failures that name the offending file

package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrDecompression matches any *DecompressionError.
	ErrDecompression = errors.New("decompression failed")

	// ErrFormat matches any *FormatError.
	ErrFormat = errors.New("unrecognized file format")

	// ErrParse matches any *ParseError.
	ErrParse = errors.New("parse failed")
)

// DecompressionError is returned when a gzip-framed file cannot be inflated.
type DecompressionError struct {
	File string
	Err  error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("error loading %s: decompress: %v", e.File, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecompression) match.
func (e *DecompressionError) Is(target error) bool { return target == ErrDecompression }

// FormatError is returned when valid JSON matches neither the standard nor
// the delta-compressed schema.
type FormatError struct {
	File   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid file format: %s: %s", e.File, e.Reason)
}

// Is lets errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ParseError is returned for malformed JSON or an unparseable timestamp.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error loading %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
