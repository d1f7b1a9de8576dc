package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"uplink/internal/config"
	"uplink/internal/ingest"
	"uplink/internal/logging"
	"uplink/internal/notifications"
	"uplink/internal/services/cms"
	"uplink/internal/services/dynamicingest"
	"uplink/internal/services/oauth"
	"uplink/internal/storage"
	"uplink/internal/watcher"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// buildWatcher wires the full watch pass: object store, API clients, mail
// notifier, and the per-asset workflow.
func (c *commandContext) buildWatcher() (*watcher.Watcher, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ValidateWatch(); err != nil {
		return nil, nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	apiTimeout := cfg.API.Timeout()
	tokens := oauth.NewClient(cfg.API.OAuthBase, oauth.WithTimeout(apiTimeout))
	videos := cms.NewClient(cfg.API.CMSBase, cms.WithTimeout(apiTimeout))
	ingests := dynamicingest.NewClient(cfg.API.IngestBase, dynamicingest.WithTimeout(apiTimeout))
	notifier := notifications.NewService(cfg, logger)

	workflow := ingest.NewWorkflow(tokens, videos, ingests, notifier, cfg.Storage.Bucket, logger)
	return watcher.New(cfg, store, workflow, notifier, logger), logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
