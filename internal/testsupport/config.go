package testsupport

import (
	"path/filepath"
	"testing"

	"uplink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with a per-test lock file and enough
// storage and API settings to pass validation. It applies any provided
// options on top.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Storage.Endpoint = "s3.test.invalid"
	cfgVal.Storage.Bucket = "uplink-test"
	cfgVal.Storage.AccessKey = "test-access"
	cfgVal.Storage.SecretKey = "test-secret"
	cfgVal.Watch.LockFile = filepath.Join(t.TempDir(), "uplink.lock")

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLockFile overrides the watch lock file path.
func WithLockFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.LockFile = path
	}
}

// WithBucket overrides the watched bucket name.
func WithBucket(bucket string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Bucket = bucket
	}
}

// WithEmail enables notifications against the given relay settings.
func WithEmail(from, host string, port int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Email.Enabled = true
		b.cfg.Email.From = from
		b.cfg.Email.SMTPHost = host
		b.cfg.Email.SMTPPort = port
	}
}

// WithLiveCue fills the minimum live-cue settings needed for validation.
func WithLiveCue(apiKey, inputFile string, outputs ...config.Rendition) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LiveCue.APIKey = apiKey
		b.cfg.LiveCue.InputFile = inputFile
		if len(outputs) == 0 {
			outputs = []config.Rendition{{Label: "hls_600", Size: "640x360", URL: "s3://live-test/out"}}
		}
		b.cfg.LiveCue.Outputs = outputs
	}
}
