package extract

import (
	"errors"
	"fmt"
)

// Kind classifies extraction failures.
type Kind string

const (
	// KindMalformedResponse means the model output could not be turned
	// into JSON after every recovery strategy.
	KindMalformedResponse Kind = "malformed_response"
	// KindEmptyResponse means the backend returned no text at all.
	KindEmptyResponse Kind = "empty_response"
	// KindCapabilityUnavailable means no suitable model exists for the
	// request (e.g. no vision model for image extraction). Soft failure:
	// callers can still record the source artifact.
	KindCapabilityUnavailable Kind = "capability_unavailable"
	// KindBackendError means the model backend call itself failed.
	KindBackendError Kind = "backend_error"
)

// malformedSampleLimit bounds the diagnostic sample carried by
// MalformedResponse errors.
const malformedSampleLimit = 500

// Error is the typed failure returned by the extraction pipeline.
type Error struct {
	Kind        Kind
	Message     string
	Sample      string // offending text, truncated; MalformedResponse only
	Remediation string // human-readable fix; CapabilityUnavailable only
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsKind reports whether err is an extraction Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func newMalformed(text string, cause error) *Error {
	sample := text
	if len(sample) > malformedSampleLimit {
		sample = sample[:malformedSampleLimit]
	}
	return &Error{
		Kind:    KindMalformedResponse,
		Message: "response is not valid JSON after all recovery strategies",
		Sample:  sample,
		Cause:   cause,
	}
}
