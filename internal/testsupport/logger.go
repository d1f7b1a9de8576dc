package testsupport

import (
	"log/slog"
	"testing"

	"uplink/internal/logging"
)

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}

// NewLogger returns a debug-level console logger that routes output through
// the test log, so it only shows up for failing or verbose runs.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()

	logger, err := logging.New(logging.Options{
		Level:  "debug",
		Format: "console",
		Writer: testWriter{t: t},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return logger
}
