package ingest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"uplink/internal/manifest"
	"uplink/internal/notifications"
	"uplink/internal/services"
	"uplink/internal/services/cms"
	"uplink/internal/services/dynamicingest"
)

// Stage names the three workflow calls for logging and results.
type Stage string

const (
	StageCreate Stage = "create"
	StageIngest Stage = "ingest"
	StageUpdate Stage = "update"
)

// Each failing stage call is attempted at most twice, with a fresh token per
// attempt. The retry is an explicit bounded loop; no stage re-runs a prior
// stage, and non-retryable failures stop after the first attempt.
const maxStageAttempts = 2

// TokenSource exchanges asset credentials for a bearer token.
type TokenSource interface {
	Token(ctx context.Context, clientID, clientSecret string) (string, error)
}

// VideoAPI covers the CMS operations the workflow needs.
type VideoAPI interface {
	CreateVideo(ctx context.Context, token, accountID, name string) (string, error)
	UpdateVideo(ctx context.Context, token, accountID, videoID string, update cms.Update) error
}

// IngestAPI covers ingest request submission.
type IngestAPI interface {
	Submit(ctx context.Context, token, accountID, videoID string, req dynamicingest.Request) (string, error)
}

// Result reports how one asset's workflow ended. MetadataWarning marks the
// completed-but-unpatched case: the ingest request is in flight even though
// the metadata update failed.
type Result struct {
	Completed       bool
	MetadataWarning bool
	FailedStage     Stage
	Err             error
}

// Workflow drives the create, ingest, update call sequence for one asset at
// a time.
type Workflow struct {
	tokens       TokenSource
	videos       VideoAPI
	ingests      IngestAPI
	notifier     notifications.Service
	logger       *slog.Logger
	sourceBucket string
}

// NewWorkflow constructs an ingest workflow.
func NewWorkflow(tokens TokenSource, videos VideoAPI, ingests IngestAPI, notifier notifications.Service, sourceBucket string, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		tokens:       tokens,
		videos:       videos,
		ingests:      ingests,
		notifier:     notifier,
		logger:       logger,
		sourceBucket: sourceBucket,
	}
}

// Run executes the full workflow for one validated asset, mutating it with
// the video and ingest request ids as stages succeed. Notification outcomes
// are routed to the manifest's submitter address.
func (w *Workflow) Run(ctx context.Context, m *manifest.Manifest, asset *manifest.Asset) Result {
	logger := w.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("manifest", m.Name),
		slog.String("file", asset.FileName),
	)

	// Stage 1: create the video record.
	videoID, err := w.createVideo(ctx, asset)
	if err != nil {
		logger.Error("video creation failed", slog.Any("error", err))
		w.notify(logger, func() error {
			return w.notifier.NotifyCreateFailed(ctx, m.Email, asset, m.Name, m.Raw)
		})
		return Result{FailedStage: StageCreate, Err: err}
	}
	asset.VideoID = videoID
	logger = logger.With(slog.String("video_id", videoID))
	logger.Info("video created")

	// Stage 2: submit the ingest request. A failure here leaves the video
	// record from stage 1 orphaned; that matches the upstream behavior.
	requestID, err := w.submitIngest(ctx, asset)
	if err != nil {
		logger.Error("ingest submission failed", slog.Any("error", err))
		w.notify(logger, func() error {
			return w.notifier.NotifyIngestFailed(ctx, m.Email, asset, m.Name, m.Raw)
		})
		return Result{FailedStage: StageIngest, Err: err}
	}
	asset.IngestRequestID = requestID
	logger.Info("ingest request submitted", slog.String("ingest_request_id", requestID))

	// Stage 3: patch metadata. No retry, and failure is only a warning; the
	// ingest request already in flight proceeds either way.
	if err := w.updateVideo(ctx, asset); err != nil {
		logger.Warn("metadata update failed, ingest still proceeding", slog.Any("error", err))
		w.notify(logger, func() error {
			return w.notifier.NotifyUpdateWarning(ctx, m.Email, asset, m.Name, m.Raw)
		})
		return Result{Completed: true, MetadataWarning: true, FailedStage: StageUpdate, Err: err}
	}

	logger.Info("asset ingest complete")
	w.notify(logger, func() error {
		return w.notifier.NotifySuccess(ctx, m.Email, asset)
	})
	return Result{Completed: true}
}

func (w *Workflow) createVideo(ctx context.Context, asset *manifest.Asset) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxStageAttempts; attempt++ {
		token, err := w.tokens.Token(ctx, asset.ClientID, asset.ClientSecret)
		if err != nil {
			lastErr = err
			if !services.Retryable(err) {
				break
			}
			continue
		}
		id, err := w.videos.CreateVideo(ctx, token, asset.AccountID, asset.Title)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !services.Retryable(err) {
			break
		}
	}
	return "", lastErr
}

func (w *Workflow) submitIngest(ctx context.Context, asset *manifest.Asset) (string, error) {
	req := dynamicingest.Request{
		Profile:          asset.Profile,
		SourceBucket:     w.sourceBucket,
		SourceFile:       asset.FileName,
		CallbackEndpoint: asset.NotificationEndpoint,
	}
	var lastErr error
	for attempt := 0; attempt < maxStageAttempts; attempt++ {
		token, err := w.tokens.Token(ctx, asset.ClientID, asset.ClientSecret)
		if err != nil {
			lastErr = err
			if !services.Retryable(err) {
				break
			}
			continue
		}
		id, err := w.ingests.Submit(ctx, token, asset.AccountID, asset.VideoID, req)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !services.Retryable(err) {
			break
		}
	}
	return "", lastErr
}

func (w *Workflow) updateVideo(ctx context.Context, asset *manifest.Asset) error {
	token, err := w.tokens.Token(ctx, asset.ClientID, asset.ClientSecret)
	if err != nil {
		return err
	}
	return w.videos.UpdateVideo(ctx, token, asset.AccountID, asset.VideoID, cms.Update{
		Name:        asset.Title,
		Description: asset.Description,
		ReferenceID: asset.ReferenceID,
	})
}

func (w *Workflow) notify(logger *slog.Logger, send func() error) {
	if err := send(); err != nil {
		logger.Warn("notification delivery failed", slog.Any("error", err))
	}
}
