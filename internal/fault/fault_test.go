package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		expected int
	}{
		{name: "Invalid input", kind: KindInvalidInput, expected: http.StatusBadRequest},
		{name: "Not found", kind: KindNotFound, expected: http.StatusNotFound},
		{name: "Config error", kind: KindConfig, expected: http.StatusInternalServerError},
		{name: "Storage failure", kind: KindStorage, expected: http.StatusInternalServerError},
		{name: "Upstream failure", kind: KindUpstream, expected: http.StatusBadGateway},
		{name: "Upstream timeout", kind: KindUpstreamTimeout, expected: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.expected {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestWrapPreservesExistingKind(t *testing.T) {
	inner := New(KindUpstreamTimeout, "request timed out")
	outer := Wrap(KindUpstream, inner, "transcript fetch failed")

	if outer.Kind != KindUpstreamTimeout {
		t.Errorf("Wrap() kind = %v, want %v", outer.Kind, KindUpstreamTimeout)
	}
	if !errors.Is(outer, inner) {
		t.Error("wrapped fault should match the inner error with errors.Is")
	}
}

func TestWrapClassifiesUntypedErrors(t *testing.T) {
	plain := fmt.Errorf("connection reset")
	wrapped := Wrap(KindUpstream, plain, "metadata fetch failed")

	if wrapped.Kind != KindUpstream {
		t.Errorf("Wrap() kind = %v, want %v", wrapped.Kind, KindUpstream)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback Kind
		expected Kind
	}{
		{
			name:     "Typed fault",
			err:      InvalidInput("missing URL"),
			fallback: KindUpstream,
			expected: KindInvalidInput,
		},
		{
			name:     "Deeply wrapped fault",
			err:      fmt.Errorf("pipeline: %w", NotFound("no such record")),
			fallback: KindStorage,
			expected: KindNotFound,
		},
		{
			name:     "Untyped error uses fallback",
			err:      errors.New("boom"),
			fallback: KindStorage,
			expected: KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err, tt.fallback); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := Config("API key missing")
	if !IsKind(err, KindConfig) {
		t.Error("IsKind should match the fault's own kind")
	}
	if IsKind(err, KindUpstream) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(errors.New("plain"), KindUpstream) {
		t.Error("IsKind should not match an untyped error")
	}
}

func TestFaultErrorMessage(t *testing.T) {
	plain := New(KindInvalidInput, "video URL is required")
	if plain.Error() != "video URL is required" {
		t.Errorf("Error() = %q", plain.Error())
	}

	wrapped := Wrap(KindUpstream, errors.New("status 503"), "metadata service failed")
	if wrapped.Error() != "metadata service failed: status 503" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
