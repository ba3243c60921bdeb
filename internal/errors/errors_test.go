package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := Storage("read rates", io.ErrUnexpectedEOF)
	want := "[STORAGE_ERROR] read rates: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	if got := Newf(TypeInput, "bad rate %q", "x").Error(); got != `[INPUT_ERROR] bad rate "x"` {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	inner := Newf(TypeInput, "selection must be retail or depo")
	wrapped := fmt.Errorf("calc: %w", inner)

	if !IsType(wrapped, TypeInput) {
		t.Error("Expected wrapped error to be an input error")
	}
	if IsType(wrapped, TypeStorage) {
		t.Error("Wrapped input error must not report storage type")
	}
	if TypeOf(wrapped) != TypeInput {
		t.Errorf("Expected TypeOf %s, got %s", TypeInput, TypeOf(wrapped))
	}
	if TypeOf(io.EOF) != TypeInternal {
		t.Errorf("Plain errors should map to %s", TypeInternal)
	}
}

func TestWithContext(t *testing.T) {
	err := Config("unknown backend", nil).WithContext("backend", "etcd")
	if err.Context["backend"] != "etcd" {
		t.Errorf("Expected context backend=etcd, got %v", err.Context)
	}
}
