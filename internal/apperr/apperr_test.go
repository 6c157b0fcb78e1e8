package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jarosser06/mosaic/internal/apperr"
)

func TestKindOf_TaggedError(t *testing.T) {
	err := apperr.New(apperr.NotFound, "project 7 not found")
	if got := apperr.KindOf(err); got != apperr.NotFound {
		t.Errorf("KindOf = %q, want %q", got, apperr.NotFound)
	}
}

func TestKindOf_UnknownErrorIsInternal(t *testing.T) {
	if got := apperr.KindOf(errors.New("boom")); got != apperr.Internal {
		t.Errorf("KindOf = %q, want %q", got, apperr.Internal)
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	inner := apperr.Newf(apperr.InvalidArgument, "duration_minutes must be positive")
	wrapped := fmt.Errorf("log_meeting: %w", inner)

	if got := apperr.KindOf(wrapped); got != apperr.InvalidArgument {
		t.Errorf("KindOf through fmt.Errorf = %q, want %q", got, apperr.InvalidArgument)
	}
	if !apperr.IsKind(wrapped, apperr.InvalidArgument) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if err := apperr.Wrap(apperr.Internal, "ctx", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Wrap(apperr.Internal, "insert work session", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	want := "insert work session: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
