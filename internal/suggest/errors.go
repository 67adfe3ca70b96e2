package suggest

import (
	"errors"

	"github.com/kamusis/shellsage/internal/embeddings"
	"github.com/kamusis/shellsage/internal/index"
)

// Kind classifies a failure reported across the service boundary.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindInput         Kind = "input"
	KindState         Kind = "state"
	KindExternalTool  Kind = "external_tool"
	KindPersistence   Kind = "persistence"
	KindInternal      Kind = "internal"
)

// Failure is the structured error returned to callers instead of a raw error.
// Message is safe to show to remote clients; the underlying error is kept for
// logging and never serialized.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	cause error
}

func (f *Failure) Error() string {
	if f.cause != nil {
		return string(f.Kind) + ": " + f.Message + ": " + f.cause.Error()
	}
	return string(f.Kind) + ": " + f.Message
}

// Unwrap returns the error the failure was built from, if any.
func (f *Failure) Unwrap() error { return f.cause }

// Classify maps err onto a Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, index.ErrEmptyInput):
		return KindInput
	case errors.Is(err, index.ErrNoIndex):
		return KindState
	case errors.Is(err, index.ErrPersistence):
		return KindPersistence
	case errors.Is(err, embeddings.ErrNotConfigured):
		return KindConfiguration
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}

// NewFailure wraps err as a Failure. Input and state failures carry their
// sentinel text; every other kind gets a fixed message so paths, URLs and
// dial errors stay out of responses.
func NewFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	k := Classify(err)
	return &Failure{Kind: k, Message: publicMessage(k, err), cause: err}
}

func publicMessage(k Kind, err error) string {
	switch k {
	case KindInput:
		return index.ErrEmptyInput.Error()
	case KindState:
		return index.ErrNoIndex.Error()
	case KindPersistence:
		return "cannot save index"
	case KindConfiguration:
		return "embedding provider is not configured"
	case KindExternalTool:
		return "external tool failed"
	}
	if errors.Is(err, index.ErrEmbedding) {
		return "embedding provider unavailable"
	}
	return "internal error"
}
