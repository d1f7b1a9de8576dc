package services_test

import (
	"errors"
	"testing"

	"uplink/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrStatus, "cms", "create video", "http 500", nil)
	if !errors.Is(err, services.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	want := "unexpected status: cms: create video: http 500"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrTransport, "oauth", "token", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected default transport marker, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status", services.Wrap(services.ErrStatus, "cms", "create", "http 500", nil), true},
		{"auth", services.Wrap(services.ErrAuth, "oauth", "token", "http 401", nil), true},
		{"transport", services.Wrap(services.ErrTransport, "cms", "create", "", errors.New("eof")), true},
		{"validation", services.Wrap(services.ErrValidation, "manifest", "asset", "missing file", nil), false},
		{"configuration", services.Wrap(services.ErrConfiguration, "storage", "bucket", "required", nil), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Retryable(tc.err); got != tc.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
