package errors

import (
	"fmt"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, "quantity must be positive")
	if err.Code() != CodeValidation {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Message() != "quantity must be positive" {
		t.Fatalf("unexpected message: %s", err.Message())
	}
	if err.Error() != "VALIDATION_ERROR: quantity must be positive" {
		t.Fatalf("unexpected Error(): %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(CodeNetwork, cause, "add to cart failed")

	if err.Unwrap() != cause {
		t.Fatal("expected wrapped cause to be preserved")
	}
	if !IsNetwork(err) {
		t.Fatal("expected IsNetwork for CodeNetwork")
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := New(CodeUnauthorized, "invalid credentials")
	outer := fmt.Errorf("login: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeUnauthorized {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	if got := CodeOf(fmt.Errorf("plain")); got != CodeInternal {
		t.Fatalf("expected internal for untyped error, got %s", got)
	}
	if got := CodeOf(nil); got != CodeInternal {
		t.Fatalf("expected internal for nil, got %s", got)
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.PublicMessage != "internal error" {
		t.Fatalf("unexpected metadata for unknown code: %+v", meta)
	}
	if !MetadataFor(CodeNetwork).Retryable {
		t.Fatal("network errors should be retryable")
	}
}
