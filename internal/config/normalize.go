package config

import "strings"

func (c *Config) normalize() error {
	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	c.Storage.Region = strings.TrimSpace(c.Storage.Region)
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.AccessKey = strings.TrimSpace(c.Storage.AccessKey)
	c.Storage.SecretKey = strings.TrimSpace(c.Storage.SecretKey)
	if c.Storage.Region == "" {
		c.Storage.Region = defaultStorageRegion
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageTimeout
	}

	lockFile := strings.TrimSpace(c.Watch.LockFile)
	if lockFile == "" {
		lockFile = defaultLockFile
	}
	expanded, err := expandPath(lockFile)
	if err != nil {
		return err
	}
	c.Watch.LockFile = expanded

	c.Watch.ManifestSuffix = strings.TrimSpace(c.Watch.ManifestSuffix)
	if c.Watch.ManifestSuffix == "" {
		c.Watch.ManifestSuffix = defaultManifestSuffix
	}
	if !strings.HasPrefix(c.Watch.ManifestSuffix, ".") {
		c.Watch.ManifestSuffix = "." + c.Watch.ManifestSuffix
	}

	c.API.OAuthBase = trimBase(c.API.OAuthBase, defaultOAuthBase)
	c.API.CMSBase = trimBase(c.API.CMSBase, defaultCMSBase)
	c.API.IngestBase = trimBase(c.API.IngestBase, defaultIngestBase)
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = defaultAPITimeout
	}

	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.From == "" {
		c.Email.From = defaultEmailFrom
	}
	c.Email.SMTPHost = strings.TrimSpace(c.Email.SMTPHost)
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = defaultSMTPHost
	}
	if c.Email.SMTPPort <= 0 {
		c.Email.SMTPPort = defaultSMTPPort
	}

	c.LiveCue.APIKey = strings.TrimSpace(c.LiveCue.APIKey)
	c.LiveCue.JobsURL = trimBase(c.LiveCue.JobsURL, defaultJobsURL)
	c.LiveCue.Region = strings.TrimSpace(c.LiveCue.Region)
	c.LiveCue.InputFile = strings.TrimSpace(c.LiveCue.InputFile)
	c.LiveCue.FFmpegBinary = strings.TrimSpace(c.LiveCue.FFmpegBinary)
	if c.LiveCue.FFmpegBinary == "" {
		c.LiveCue.FFmpegBinary = defaultFFmpegBinary
	}
	if c.LiveCue.WarmupSeconds < 0 {
		c.LiveCue.WarmupSeconds = defaultWarmupSeconds
	}
	if c.LiveCue.IntervalSeconds <= 0 {
		c.LiveCue.IntervalSeconds = defaultIntervalSeconds
	}
	if strings.TrimSpace(c.LiveCue.CueName) == "" {
		c.LiveCue.CueName = defaultCueName
	}
	if strings.TrimSpace(c.LiveCue.CueTime) == "" {
		c.LiveCue.CueTime = defaultCueTime
	}
	if strings.TrimSpace(c.LiveCue.CueType) == "" {
		c.LiveCue.CueType = defaultCueType
	}
	if c.LiveCue.RequestTimeout <= 0 {
		c.LiveCue.RequestTimeout = defaultLiveCueAPITimeout
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	return nil
}

func trimBase(value, fallback string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
