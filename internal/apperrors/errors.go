// Package apperrors defines the error kinds the pipeline reports to callers.
//
// Every failure that crosses a package boundary is classified with a Kind so
// the HTTP layer can map it to a status code and the caller can react without
// string matching. Errors wrap their cause and participate in errors.Is/As.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind identifies a category of pipeline failure.
type Kind string

const (
	// KindInvalidImage means the request payload could not be decoded into
	// a pixel buffer (corrupt bytes, unsupported format).
	KindInvalidImage Kind = "InvalidImage"

	// KindOcrUnavailable means the OCR backend could not be reached or
	// initialized (missing Tesseract install or language data).
	KindOcrUnavailable Kind = "OcrUnavailable"

	// KindOcrTimeout means a recognition exceeded its configured deadline.
	KindOcrTimeout Kind = "OcrTimeout"

	// KindUnanalyzableInput means the tokenizer was given empty or
	// Japanese-free text.
	KindUnanalyzableInput Kind = "UnanalyzableInput"

	// KindDictionaryUnavailable means the lexicon failed to load at startup.
	// This is fatal; the process must not serve traffic.
	KindDictionaryUnavailable Kind = "DictionaryUnavailable"

	// KindInternal covers failures with no more specific classification.
	KindInternal Kind = "Internal"
)

// Error is a classified pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error wrapping an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf reports the Kind of err, or KindInternal when err carries no
// classification anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified with the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
