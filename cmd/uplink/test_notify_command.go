package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uplink/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify <address>",
		Short: "Send a test notification email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Email.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Email notifications are disabled in the configuration")
				return nil
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			notifier := notifications.NewService(cfg, logger)
			if err := notifier.TestNotification(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
