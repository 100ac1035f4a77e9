package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"teamnotify/internal/preflight"
	"teamnotify/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify credentials, repository access and routing configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			fmt.Fprintln(stdout, renderSectionHeader("Configuration", colorize))
			source := ctx.configPath
			if !ctx.configExists {
				source = "defaults and environment"
			}
			fmt.Fprintln(stdout, renderStatusLine("Source", statusInfo, source, colorize))
			if repo := describeRepo(cfg); repo != "" {
				fmt.Fprintln(stdout, renderStatusLine("Repository", statusInfo, repo, colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("Trigger path", statusInfo, cfg.Trigger.Path, colorize))
			fmt.Fprintln(stdout)

			fmt.Fprintln(stdout, renderSectionHeader("Preflight", colorize))
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				fmt.Fprintln(stdout, renderResult(result, colorize))
			}

			if preflight.Failed(results) {
				return services.Wrap(services.ErrValidation, "check", "", "one or more preflight checks failed", nil)
			}
			return nil
		},
	}
}
