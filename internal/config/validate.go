package config

import (
	"fmt"
	"strings"
)

// Validate checks structural configuration problems that apply regardless of
// which subcommand runs. Command-specific requirements (bucket for watch,
// API key for livecue) are checked by ValidateWatch and ValidateLiveCue so
// that unrelated commands keep working with a partial config.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	return nil
}

// ValidateWatch checks the requirements for watch and scan runs.
func (c *Config) ValidateWatch() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.endpoint is required")
	}
	return nil
}

// ValidateLiveCue checks the requirements for a live cue injection run.
func (c *Config) ValidateLiveCue() error {
	if c.LiveCue.APIKey == "" {
		return fmt.Errorf("livecue.api_key is required")
	}
	if c.LiveCue.InputFile == "" {
		return fmt.Errorf("livecue.input_file is required")
	}
	if len(c.LiveCue.Outputs) == 0 {
		return fmt.Errorf("livecue.outputs: at least one rendition is required")
	}
	for i, output := range c.LiveCue.Outputs {
		if strings.TrimSpace(output.URL) == "" {
			return fmt.Errorf("livecue.outputs[%d].url is required", i)
		}
	}
	return nil
}
