// Package fault defines the classified error taxonomy surfaced to callers.
// Each collaborator returns a typed Fault so that the boundary can choose a
// transport status structurally instead of matching on message text.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one category of failure.
type Kind int

const (
	// KindUpstream is the default for failures in a downstream provider
	// (metadata, transcript, or report service).
	KindUpstream Kind = iota
	// KindUpstreamTimeout is an upstream call that exceeded its time budget.
	KindUpstreamTimeout
	// KindInvalidInput is a malformed or missing caller-supplied value.
	KindInvalidInput
	// KindConfig is missing upstream credentials or configuration;
	// operator-fixable, not user-fixable.
	KindConfig
	// KindNotFound is a requested identifier with no corresponding record.
	KindNotFound
	// KindStorage is a directory or file I/O failure in the result store.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindUpstreamTimeout:
		return "upstream timeout"
	case KindInvalidInput:
		return "invalid input"
	case KindConfig:
		return "configuration error"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage failure"
	default:
		return "upstream failure"
	}
}

// HTTPStatus maps a kind to the transport status the boundary returns.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConfig, KindStorage:
		return http.StatusInternalServerError
	case KindUpstream, KindUpstreamTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fault is a classified error with a human-readable message.
type Fault struct {
	Kind Kind
	msg  string
	err  error
}

func (f *Fault) Error() string {
	if f.err != nil {
		return fmt.Sprintf("%s: %v", f.msg, f.err)
	}
	return f.msg
}

func (f *Fault) Unwrap() error { return f.err }

// New creates a Fault of the given kind.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a Fault of the given kind around an underlying error. If the
// underlying error is already a Fault, its kind is preserved so that a
// component never re-classifies an error from deeper in the call chain.
func Wrap(kind Kind, err error, format string, args ...any) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		kind = f.Kind
	}
	return &Fault{Kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

func InvalidInput(format string, args ...any) *Fault {
	return New(KindInvalidInput, format, args...)
}

func Config(format string, args ...any) *Fault {
	return New(KindConfig, format, args...)
}

func NotFound(format string, args ...any) *Fault {
	return New(KindNotFound, format, args...)
}

// KindOf extracts the classification of an error. Untyped errors default to
// the supplied fallback so that each component decides what an unclassified
// failure means at its own boundary.
func KindOf(err error, fallback Kind) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return fallback
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}
