package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"teamnotify/internal/notifications"
	"teamnotify/internal/services"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var channel string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if dryRun {
				cfg.Dispatch.DryRun = true
			}

			target := strings.TrimPrefix(strings.TrimSpace(channel), "#")
			if target == "" {
				if len(cfg.Routing.Teams) == 0 {
					return services.Wrap(services.ErrConfiguration, "test-notify", "", "", errors.New("--channel is required when no teams are configured"))
				}
				target = cfg.Routing.Teams[0].Channel
			}

			logger, err := ctx.newLogger(cmd, &cfg)
			if err != nil {
				return err
			}
			notifier, err := notifications.NewService(&cfg, logger)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "slack", "init", "", err)
			}

			delivery, err := notifier.Send(cmd.Context(), target, notifications.TestMessage(describeRepo(&cfg)))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !delivery.OK {
				fmt.Fprintf(out, "Notification not sent to #%s (%s)\n", target, delivery.Reason)
				return services.Wrap(services.ErrDelivery, "test-notify", "", delivery.Reason, nil)
			}
			fmt.Fprintf(out, "Test notification sent to #%s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Destination channel (default: first configured team)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the message instead of posting it")
	return cmd
}
