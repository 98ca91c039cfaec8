package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "position (9, 9) outside buffer")

	if err == nil {
		t.Fatal("New should return non-nil error")
	}

	if err.Code != ErrCodeOutOfBounds {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutOfBounds)
	}

	if err.Message != "position (9, 9) outside buffer" {
		t.Errorf("Message = %v, want 'position (9, 9) outside buffer'", err.Message)
	}

	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}

	if len(err.Stack) == 0 {
		t.Error("Stack should be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeOutOfRange, "%s channel %d out of range", "red", -1)
	if err.Message != "red channel -1 out of range" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("broken pipe")
	err := Wrap(underlying, ErrCodeBackendIO, "failed to flush frame")

	if err == nil {
		t.Fatal("Wrap should return non-nil error")
	}

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}

	if !strings.Contains(err.Error(), "broken pipe") {
		t.Error("Error string should include underlying error")
	}
}

func TestWrap_Nil(t *testing.T) {
	err := Wrap(nil, ErrCodeInternal, "test")

	if err != nil {
		t.Error("Wrap of nil should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeInsufficientConstraints, "not enough constraints")
	err.WithContext("offset", 2)
	err.WithContext("constraints", 2)

	if err.Context["offset"] != 2 {
		t.Error("Context should contain 'offset' key")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "constraints: 2, offset: 2") {
		t.Errorf("Error string should include sorted context, got %q", errStr)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	underlying := errors.New("underlying")
	err := Wrap(underlying, ErrCodeInternal, "wrapped")

	if err.Unwrap() != underlying {
		t.Error("Unwrap should return underlying error")
	}

	outer := fmt.Errorf("draw: %w", New(ErrCodeShapeMismatch, "areas differ"))
	if !errors.Is(outer, New(ErrCodeShapeMismatch, "")) {
		t.Error("errors.Is should match on code through wrapping")
	}
	if errors.Is(outer, New(ErrCodeOutOfBounds, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeInvalidStop, "stop 1.5 outside [0, 1]")

	if !IsCode(err, ErrCodeInvalidStop) {
		t.Error("IsCode should return true for matching code")
	}

	if IsCode(err, ErrCodeOutOfRange) {
		t.Error("IsCode should return false for non-matching code")
	}

	if IsCode(nil, ErrCodeInvalidStop) {
		t.Error("IsCode should return false for nil error")
	}

	wrapped := fmt.Errorf("gradient: %w", err)
	if !IsCode(wrapped, ErrCodeInvalidStop) {
		t.Error("IsCode should see through fmt wrapping")
	}

	if IsCode(errors.New("standard error"), ErrCodeInternal) {
		t.Error("IsCode should return false for foreign errors")
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeCursorQueryTimeout, "timeout")); code != ErrCodeCursorQueryTimeout {
		t.Errorf("GetCode = %v, want %v", code, ErrCodeCursorQueryTimeout)
	}

	if GetCode(nil) != "" {
		t.Error("GetCode should return empty string for nil")
	}

	if GetCode(errors.New("standard")) != ErrCodeInternal {
		t.Error("GetCode should return ErrCodeInternal for foreign errors")
	}
}

func TestContextValue(t *testing.T) {
	err := fmt.Errorf("layout: %w", New(ErrCodeInsufficientConstraints, "short").WithContext("offset", 3))

	v, ok := ContextValue(err, "offset")
	if !ok || v != 3 {
		t.Errorf("ContextValue = %v, %v; want 3, true", v, ok)
	}

	if _, ok := ContextValue(errors.New("plain"), "offset"); ok {
		t.Error("ContextValue should fail for foreign errors")
	}
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "test error")

	trace := err.StackTrace()

	if !strings.Contains(trace, "Stack trace:") {
		t.Errorf("StackTrace missing header: %q", trace)
	}
	if !strings.Contains(trace, "TestStackTrace") {
		t.Errorf("StackTrace should include the calling test, got %q", trace)
	}

	found := false
	for _, f := range err.Stack {
		if strings.HasSuffix(f.File, "types_test.go") && f.Line > 0 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no frame points at types_test.go: %+v", err.Stack)
	}
}
