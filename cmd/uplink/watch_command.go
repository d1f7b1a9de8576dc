package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uplink/internal/services"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run one manifest sweep over the watched bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := ctx.buildWatcher()
			if err != nil {
				return err
			}

			summary, err := w.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, services.ErrLocked) {
					return fmt.Errorf("%s another instance is already running", time.Now().Format("2006-01-02 15:04:05"))
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d manifest(s): %d asset(s) ingested, %d invalid, %d failed\n",
				summary.ManifestsProcessed, summary.AssetsCompleted, summary.AssetsInvalid, summary.AssetsFailed)
			if summary.ManifestsFailed > 0 {
				fmt.Fprintf(out, "%d manifest(s) could not be read and were left in the bucket\n", summary.ManifestsFailed)
			}
			return nil
		},
	}
}
