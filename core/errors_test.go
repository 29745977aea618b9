package core

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestIsNotFoundError_WithExactError(t *testing.T) {
	if !IsNotFoundError(ErrNotFound) {
		t.Error("expected true for ErrNotFound")
	}
}

func TestIsNotFoundError_WithWrappedViewError(t *testing.T) {
	err := pkgerrors.Wrapf(ErrViewNotFound, "%s", "missing")
	if !IsNotFoundError(err) {
		t.Error("expected true for wrapped ErrViewNotFound")
	}
}

func TestIsNotFoundError_WithDifferentError(t *testing.T) {
	if IsNotFoundError(errors.New("some other error")) {
		t.Error("expected false for unrelated error")
	}
}

func TestIsNotFoundError_WithNil(t *testing.T) {
	if IsNotFoundError(nil) {
		t.Error("expected false for nil error")
	}
}

func TestIsBindError_ThroughWrapping(t *testing.T) {
	err := pkgerrors.Wrap(&BindError{Param: "a", Err: ErrMissingParam}, "calculate")
	if !IsBindError(err) {
		t.Error("expected wrapped BindError to be detected")
	}
	if !errors.Is(err, ErrMissingParam) {
		t.Error("expected wrapped BindError to unwrap to ErrMissingParam")
	}
	if IsBindError(errors.New("plain")) {
		t.Error("expected false for plain error")
	}
}
