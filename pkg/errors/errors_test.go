package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "bad request body", http.StatusBadRequest)

	if err.Code != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, err.Code)
	}
	if err.Message != "bad request body" {
		t.Errorf("expected message 'bad request body', got %s", err.Message)
	}
	if err.StatusCode() != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.StatusCode())
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound("Service"),
			expected: "NOT_FOUND: Service not found",
		},
		{
			name:     "with underlying error",
			appErr:   Internal("Failed to process move request", errors.New("store full")),
			expected: "INTERNAL_ERROR: Failed to process move request (caused by: store full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"missing field", MissingField("phone"), CodeMissingField, http.StatusBadRequest, "Missing required field: phone"},
		{"invalid email", InvalidEmail(), CodeInvalidEmail, http.StatusBadRequest, "Please enter a valid email address"},
		{"media type", UnsupportedMediaType("application/json"), CodeUnsupportedMediaType, http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"too large", PayloadTooLarge(1024), CodePayloadTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
		{"rate limited", RateLimited(), CodeRateLimited, http.StatusTooManyRequests, "Too many requests, please slow down"},
		{"timeout", Timeout("Request timeout"), CodeTimeout, http.StatusServiceUnavailable, "Request timeout"},
		{"unavailable", Unavailable("Booking service"), CodeUnavailable, http.StatusServiceUnavailable, "Booking service is temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestMissingField_Details(t *testing.T) {
	err := MissingField("service_id")
	if err.Details["field"] != "service_id" {
		t.Errorf("expected field detail, got %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := InvalidEmail()
	if got := AsAppError(fmt.Errorf("decode: %w", appErr)); got != appErr {
		t.Errorf("AsAppError should find a wrapped AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal || got.StatusCode() != http.StatusInternalServerError {
		t.Errorf("unexpected conversion %+v", got)
	}
	if got.Message != "Internal server error" {
		t.Errorf("internal details must not reach the message, got %q", got.Message)
	}
	if !errors.Is(got, plain) {
		t.Error("converted error should wrap the original")
	}

	if IsAppError(plain) || !IsAppError(appErr) {
		t.Error("IsAppError misclassified")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	got := string(MissingField("name").ToJSON())
	want := `{"error":"Missing required field: name"}`
	if got != want {
		t.Errorf("ToJSON() = %s, want %s", got, want)
	}
}
