package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidQuery, "lag %d must be non-positive", 3)
	if got, want := err.Error(), "INVALID_QUERY: lag 3 must be non-positive"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("boom")
	wrapped := Wrap(ErrCodeInternal, cause, "hash graph")
	if got, want := wrapped.Error(), "INTERNAL_ERROR: hash graph: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error must unwrap to its cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeInvalidGraph, "bad matrix")

	if !Is(err, ErrCodeInvalidGraph) {
		t.Error("Is() must match the error's code")
	}
	if Is(err, ErrCodeInvalidQuery) {
		t.Error("Is() must not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidGraph) {
		t.Error("Is() must not match plain errors")
	}

	if got := GetCode(err); got != ErrCodeInvalidGraph {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInvalidGraph)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestGetCodeUnwraps(t *testing.T) {
	inner := New(ErrCodeMissingBound, "no bound")
	outer := Wrap(ErrCodeInternal, inner, "ancestor search")

	// The outermost code wins.
	if got := GetCode(outer); got != ErrCodeInternal {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInternal)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeUnsupported, "model selection not implemented")
	if got, want := UserMessage(err), "model selection not implemented"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain failure")
	}
}
