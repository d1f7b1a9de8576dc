package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uplink/internal/manifest"
	"uplink/internal/storage"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List pending manifests in the watched bucket without processing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateWatch(); err != nil {
				return err
			}
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}

			objects, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(objects))
			for _, object := range objects {
				if !showAll && !manifest.IsManifest(object.Key, cfg.Watch.ManifestSuffix) {
					continue
				}
				kind := "object"
				if manifest.IsManifest(object.Key, cfg.Watch.ManifestSuffix) {
					kind = "manifest"
				}
				rows = append(rows, []string{
					object.Key,
					kind,
					formatSize(object.Size),
					formatModified(object.LastModified),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No pending manifests in bucket %s\n", store.Bucket())
				return nil
			}
			if !isTerminal(out) {
				for _, row := range rows {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
				}
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Key", "Type", "Size", "Last Modified"},
				rows,
				2, // size
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include non-manifest objects in the listing")
	return cmd
}

func formatModified(when time.Time) string {
	if when.IsZero() {
		return "-"
	}
	return when.Local().Format("2006-01-02 15:04:05")
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	idx := -1
	for value >= unit && idx < len(suffixes)-1 {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[idx])
}
