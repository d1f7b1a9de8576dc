package main

import (
	"github.com/spf13/cobra"

	"uplink/internal/livecue"
	"uplink/internal/services/zencoder"
)

func newLiveCueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "livecue",
		Short: "Start a live transcode job, feed it, and inject rotating cue points",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateLiveCue(); err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			jobs := zencoder.NewClient(cfg.LiveCue.APIKey, cfg.LiveCue.JobsURL,
				zencoder.WithTimeout(cfg.LiveCue.Timeout()))
			return livecue.New(cfg.LiveCue, jobs, logger).Run(cmd.Context())
		},
	}
}
