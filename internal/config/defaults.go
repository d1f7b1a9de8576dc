package config

const (
	defaultLockFile          = "~/.local/share/uplink/uplink.lock"
	defaultManifestSuffix    = ".xml"
	defaultStorageRegion     = "us-east-1"
	defaultStorageTimeout    = 30
	defaultOAuthBase         = "https://oauth.brightcove.com"
	defaultCMSBase           = "https://cms.api.brightcove.com"
	defaultIngestBase        = "https://ingest.api.brightcove.com"
	defaultAPITimeout        = 15
	defaultEmailFrom         = "uplink@localhost"
	defaultSMTPHost          = "localhost"
	defaultSMTPPort          = 25
	defaultJobsURL           = "https://app.zencoder.com/api/v2/jobs"
	defaultLiveCueRegion     = "us-n-california"
	defaultFFmpegBinary      = "ffmpeg"
	defaultWarmupSeconds     = 15
	defaultIntervalSeconds   = 5
	defaultCueName           = "adCue"
	defaultCueTime           = "30"
	defaultCueType           = "event"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLiveCueAPITimeout = 15
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Region:         defaultStorageRegion,
			UseSSL:         true,
			RequestTimeout: defaultStorageTimeout,
		},
		Watch: Watch{
			LockFile:       defaultLockFile,
			ManifestSuffix: defaultManifestSuffix,
		},
		API: API{
			OAuthBase:      defaultOAuthBase,
			CMSBase:        defaultCMSBase,
			IngestBase:     defaultIngestBase,
			RequestTimeout: defaultAPITimeout,
		},
		Email: Email{
			Enabled:  true,
			From:     defaultEmailFrom,
			SMTPHost: defaultSMTPHost,
			SMTPPort: defaultSMTPPort,
		},
		LiveCue: LiveCue{
			JobsURL:         defaultJobsURL,
			Region:          defaultLiveCueRegion,
			FFmpegBinary:    defaultFFmpegBinary,
			WarmupSeconds:   defaultWarmupSeconds,
			IntervalSeconds: defaultIntervalSeconds,
			CueName:         defaultCueName,
			CueTime:         defaultCueTime,
			CueType:         defaultCueType,
			RequestTimeout:  defaultLiveCueAPITimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
