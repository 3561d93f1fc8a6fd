package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindAuthorization
	KindNotFound
	KindTransientAPI
	KindClassificationBatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindTransientAPI:
		return "transient_api"
	case KindClassificationBatch:
		return "classification_batch"
	default:
		return "unknown"
	}
}

// Error carries the failure kind so the presentation layer can decide how to
// render it. Batch is the 1-based batch number for KindClassificationBatch.
type Error struct {
	Kind  Kind
	Op    string
	Batch int
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindClassificationBatch && e.Err != nil:
		return fmt.Sprintf("%s: batch %d: %v", e.Op, e.Batch, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Invalid(op, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: errors.New(msg)}
}

func BatchFailed(op string, batch int, err error) *Error {
	return &Error{Kind: KindClassificationBatch, Op: op, Batch: batch, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage turns err into the text shown to the person using the dashboard or CLI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("An error occurred: %v", err)
	}

	switch e.Kind {
	case KindInvalidInput:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Invalid input."
	case KindAuthorization:
		return "API quota exceeded or invalid API key. Please check your YouTube Data API key and quota."
	case KindNotFound:
		return "Video not found or comments disabled."
	case KindTransientAPI:
		return fmt.Sprintf("YouTube API error: %v", e.Err)
	case KindClassificationBatch:
		return fmt.Sprintf("Error processing batch %d: %v", e.Batch, e.Err)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
