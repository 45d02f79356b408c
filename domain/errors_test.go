package domain

import (
	"errors"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := DomainError{Code: "TEST_ERROR", Message: "Test message"}
	if got := err.Error(); got != "[TEST_ERROR] Test message" {
		t.Errorf("unexpected message %q", got)
	}

	withCause := DomainError{Code: "TEST_ERROR", Message: "Test message", Cause: errors.New("underlying error")}
	if got := withCause.Error(); got != "[TEST_ERROR] Test message: underlying error" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewAnalysisError("aggregation failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if (DomainError{Code: "X"}).Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"invalid input", NewInvalidInputError("no input paths specified", nil), ErrCodeInvalidInput, "no input paths specified"},
		{"file not found", NewFileNotFoundError("/src/Cart.java", nil), ErrCodeFileNotFound, "file not found: /src/Cart.java"},
		{"parse", NewParseError("shop.facts.yaml", nil), ErrCodeParseError, "failed to parse shop.facts.yaml"},
		{"analysis", NewAnalysisError("aggregation failed", nil), ErrCodeAnalysisError, "aggregation failed"},
		{"config", NewConfigError("invalid config", nil), ErrCodeConfigError, "invalid config"},
		{"output", NewOutputError("write failed", nil), ErrCodeOutputError, "write failed"},
		{"format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat, "unsupported format: xml"},
		{"validation", NewValidationError("bad"), ErrCodeInvalidInput, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr DomainError
			if !errors.As(tt.err, &domainErr) {
				t.Fatalf("expected DomainError, got %T", tt.err)
			}
			if domainErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, domainErr.Code)
			}
			if domainErr.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, domainErr.Message)
			}
		})
	}
}
