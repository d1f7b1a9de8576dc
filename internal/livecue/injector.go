package livecue

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"uplink/internal/config"
	"uplink/internal/services"
	"uplink/internal/services/zencoder"
)

var commandContext = exec.CommandContext

// JobAPI is the slice of the transcoding API the injector needs.
type JobAPI interface {
	CreateJob(ctx context.Context, request zencoder.JobRequest) (zencoder.Job, error)
	InjectCuePoint(ctx context.Context, jobID string, cue zencoder.CuePoint) error
}

// Injector creates a live transcode job, feeds it from a local file over
// RTMP, and injects rotating cue points for as long as the feed runs.
type Injector struct {
	cfg    config.LiveCue
	jobs   JobAPI
	logger *slog.Logger

	warmup   time.Duration
	interval time.Duration
}

// Option customizes the injector.
type Option func(*Injector)

// WithTimings overrides the warm-up delay and injection interval.
func WithTimings(warmup, interval time.Duration) Option {
	return func(i *Injector) {
		if warmup >= 0 {
			i.warmup = warmup
		}
		if interval > 0 {
			i.interval = interval
		}
	}
}

// New constructs an injector from config.
func New(cfg config.LiveCue, jobs JobAPI, logger *slog.Logger, opts ...Option) *Injector {
	if logger == nil {
		logger = slog.Default()
	}
	inj := &Injector{
		cfg:      cfg,
		jobs:     jobs,
		logger:   logger,
		warmup:   time.Duration(cfg.WarmupSeconds) * time.Second,
		interval: time.Duration(cfg.IntervalSeconds) * time.Second,
	}
	if inj.interval <= 0 {
		inj.interval = 5 * time.Second
	}
	for _, opt := range opts {
		opt(inj)
	}
	return inj
}

// Run performs one complete live session: create the job, start the feed,
// wait out the warm-up, then inject a cue point every interval until the feed
// process exits or ctx is cancelled. Cue failures are logged and skipped; the
// job itself is left to expire on the platform side.
func (i *Injector) Run(ctx context.Context) error {
	job, err := i.jobs.CreateJob(ctx, BuildJobRequest(i.cfg))
	if err != nil {
		return err
	}
	logger := i.logger.With(slog.String("job_id", job.ID))
	logger.Info("live job created",
		slog.String("stream_url", job.StreamURL),
		slog.String("stream_name", job.StreamName))

	binary := i.cfg.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	target := job.StreamURL + "/" + job.StreamName
	cmd := commandContext(ctx, binary,
		"-re", "-y",
		"-i", i.cfg.InputFile,
		"-vcodec", "copy",
		"-acodec", "copy",
		"-f", "flv",
		target,
	)
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrConfiguration, "livecue", "start feed", binary, err)
	}
	logger.Info("feed started", slog.String("input", i.cfg.InputFile), slog.String("target", target))

	// The injection loop lives exactly as long as the feed subprocess.
	feedCtx, cancel := context.WithCancel(ctx)
	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		waitErr <- err
		cancel()
	}()
	defer cancel()

	if i.warmup > 0 {
		select {
		case <-time.After(i.warmup):
		case <-feedCtx.Done():
		}
	}

	// Inject first, then sleep: the first cue goes out right after the
	// warm-up, not one interval later.
	injections := 0
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()
	for feedCtx.Err() == nil {
		cue := zencoder.CuePoint{
			Name:       i.cfg.CueName,
			Time:       i.cfg.CueTime,
			Type:       i.cfg.CueType,
			Parameters: payloadAt(injections),
		}
		if err := i.jobs.InjectCuePoint(feedCtx, job.ID, cue); err != nil {
			logger.Warn("cue injection failed", slog.Any("error", err))
		} else {
			logger.Debug("cue injected", slog.Int("sequence", injections))
		}
		injections++

		select {
		case <-feedCtx.Done():
		case <-ticker.C:
		}
	}

	err = <-waitErr
	logger.Info("feed ended", slog.Int("cues_injected", injections))
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("feed process: %w", err)
	}
	return ctx.Err()
}

// BuildJobRequest maps the configured renditions and playlist onto a live
// job request.
func BuildJobRequest(cfg config.LiveCue) zencoder.JobRequest {
	request := zencoder.JobRequest{
		LiveStream:          "true",
		MetadataPassthrough: "true",
		Region:              cfg.Region,
	}
	for _, rendition := range cfg.Outputs {
		request.Outputs = append(request.Outputs, zencoder.Output{
			Label:               rendition.Label,
			Size:                rendition.Size,
			VideoBitrate:        rendition.VideoBitrate,
			AudioBitrate:        rendition.AudioBitrate,
			URL:                 rendition.URL,
			Type:                "segmented",
			LiveStream:          "true",
			MetadataPassthrough: "true",
			Headers:             map[string]string{"x-amz-acl": "public-read"},
		})
	}
	if cfg.PlaylistURL != "" {
		playlist := zencoder.Output{
			URL:     cfg.PlaylistURL,
			Type:    "playlist",
			Headers: map[string]string{"x-amz-acl": "public-read"},
		}
		for _, stream := range cfg.Streams {
			playlist.Streams = append(playlist.Streams, zencoder.PlaylistStream{
				Bandwidth: stream.Bandwidth,
				Path:      stream.Path,
			})
		}
		request.Outputs = append(request.Outputs, playlist)
	}
	return request
}
