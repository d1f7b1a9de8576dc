package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Storage contains connection settings for the S3-compatible manifest bucket.
type Storage struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Watch contains settings for the manifest watch pass.
type Watch struct {
	LockFile       string `toml:"lock_file"`
	ManifestSuffix string `toml:"manifest_suffix"`
}

// API contains base URLs for the video platform APIs.
type API struct {
	OAuthBase      string `toml:"oauth_base"`
	CMSBase        string `toml:"cms_base"`
	IngestBase     string `toml:"ingest_base"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Timeout returns the API request timeout as a duration.
func (a API) Timeout() time.Duration {
	return time.Duration(a.RequestTimeout) * time.Second
}

// Email contains settings for the notification mail relay.
type Email struct {
	Enabled  bool   `toml:"enabled"`
	From     string `toml:"from"`
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
}

// Rendition describes one segmented output of the live transcode job.
type Rendition struct {
	Label        string `toml:"label"`
	Size         string `toml:"size"`
	VideoBitrate int    `toml:"video_bitrate"`
	AudioBitrate int    `toml:"audio_bitrate"`
	URL          string `toml:"url"`
}

// PlaylistStream describes one variant entry of the master playlist output.
type PlaylistStream struct {
	Bandwidth int    `toml:"bandwidth"`
	Path      string `toml:"path"`
}

// LiveCue contains settings for the live cue injection run.
type LiveCue struct {
	APIKey          string           `toml:"api_key"`
	JobsURL         string           `toml:"jobs_url"`
	Region          string           `toml:"region"`
	InputFile       string           `toml:"input_file"`
	FFmpegBinary    string           `toml:"ffmpeg_binary"`
	WarmupSeconds   int              `toml:"warmup_seconds"`
	IntervalSeconds int              `toml:"interval_seconds"`
	CueName         string           `toml:"cue_name"`
	CueTime         string           `toml:"cue_time"`
	CueType         string           `toml:"cue_type"`
	PlaylistURL     string           `toml:"playlist_url"`
	Outputs         []Rendition      `toml:"outputs"`
	Streams         []PlaylistStream `toml:"streams"`
	RequestTimeout  int              `toml:"request_timeout"`
}

// Timeout returns the live-cue API request timeout as a duration.
func (l LiveCue) Timeout() time.Duration {
	return time.Duration(l.RequestTimeout) * time.Second
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for Uplink.
//
// Sections by subsystem:
//   - Storage: the watched S3-compatible bucket
//   - Watch: lock file and manifest recognition
//   - API: OAuth, CMS, and Dynamic Ingest base URLs
//   - Email: submitter notification relay
//   - LiveCue: live transcode job and cue injection settings
//   - Logging: log level and format
type Config struct {
	Storage Storage `toml:"storage"`
	Watch   Watch   `toml:"watch"`
	API     API     `toml:"api"`
	Email   Email   `toml:"email"`
	LiveCue LiveCue `toml:"livecue"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/uplink/config.toml")
}

// Sample returns the embedded sample configuration document.
func Sample() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("uplink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
