package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"uplink/internal/config"
	"uplink/internal/ingest"
	"uplink/internal/manifest"
	"uplink/internal/notifications"
	"uplink/internal/services"
	"uplink/internal/storage"
)

// Store is the object-store surface the watch pass needs.
type Store interface {
	List(ctx context.Context) ([]storage.Object, error)
	Fetch(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// AssetProcessor runs the ingest workflow for one validated asset.
type AssetProcessor interface {
	Run(ctx context.Context, m *manifest.Manifest, asset *manifest.Asset) ingest.Result
}

// Summary aggregates one watch pass.
type Summary struct {
	ManifestsProcessed int
	ManifestsFailed    int
	AssetsCompleted    int
	AssetsInvalid      int
	AssetsFailed       int
}

// Watcher performs a single manifest sweep over the configured bucket while
// holding the instance lock.
type Watcher struct {
	store    Store
	workflow AssetProcessor
	notifier notifications.Service
	logger   *slog.Logger

	lockPath string
	suffix   string
}

// New constructs a watcher.
func New(cfg *config.Config, store Store, workflow AssetProcessor, notifier notifications.Service, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		workflow: workflow,
		notifier: notifier,
		logger:   logger,
		lockPath: cfg.Watch.LockFile,
		suffix:   cfg.Watch.ManifestSuffix,
	}
}

// Run acquires the instance lock, performs exactly one listing pass, and
// returns. Lock contention surfaces as services.ErrLocked before any store
// access; the lock is released when the pass ends.
func (w *Watcher) Run(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
		return Summary{}, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(w.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, services.Wrap(services.ErrLocked, "watcher", "lock", w.lockPath, nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release lock", slog.Any("error", err))
		}
	}()

	logger := w.logger.With(slog.String("session", uuid.NewString()))
	logger.Info("watch pass started", slog.String("lock", w.lockPath))

	objects, err := w.store.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list bucket: %w", err)
	}

	var summary Summary
	for _, object := range objects {
		if !manifest.IsManifest(object.Key, w.suffix) {
			continue
		}
		w.processManifest(ctx, logger, object.Key, &summary)
	}

	logger.Info("watch pass complete",
		slog.Int("manifests", summary.ManifestsProcessed),
		slog.Int("parse_failures", summary.ManifestsFailed),
		slog.Int("assets_completed", summary.AssetsCompleted),
		slog.Int("assets_invalid", summary.AssetsInvalid),
		slog.Int("assets_failed", summary.AssetsFailed),
	)
	return summary, nil
}

func (w *Watcher) processManifest(ctx context.Context, logger *slog.Logger, key string, summary *Summary) {
	logger = logger.With(slog.String("manifest", key))

	raw, err := w.store.Fetch(ctx, key)
	if err != nil {
		logger.Error("fetch manifest failed, leaving object for next pass", slog.Any("error", err))
		summary.ManifestsFailed++
		return
	}

	m, err := manifest.Parse(key, raw)
	if err != nil {
		// A document we cannot parse stays in the bucket so a corrected
		// uploader tool or operator can look at it on the next pass.
		logger.Error("manifest parse failed, leaving object in place", slog.Any("error", err))
		summary.ManifestsFailed++
		return
	}

	for i := range m.Assets {
		asset := &m.Assets[i]
		if !asset.Validate() {
			logger.Warn("invalid asset in manifest", slog.String("file", asset.FileName))
			if err := w.notifier.NotifyInvalidAsset(ctx, m.Email, asset, m.Name, m.Raw); err != nil {
				logger.Warn("notification delivery failed", slog.Any("error", err))
			}
			summary.AssetsInvalid++
			continue
		}
		result := w.workflow.Run(ctx, m, asset)
		if result.Completed {
			summary.AssetsCompleted++
		} else {
			summary.AssetsFailed++
		}
	}

	// The manifest comes out of the bucket even when individual assets
	// failed; only a parse-level failure above keeps it around.
	if err := w.store.Delete(ctx, key); err != nil {
		logger.Error("delete manifest failed", slog.Any("error", err))
	}
	summary.ManifestsProcessed++
}
