package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"teamnotify/internal/config"
	"teamnotify/internal/dispatch"
	"teamnotify/internal/logging"
	"teamnotify/internal/notifications"
	"teamnotify/internal/pipeline"
	"teamnotify/internal/resolver"
	"teamnotify/internal/routing"
	"teamnotify/internal/services"
	"teamnotify/internal/services/github"
)

type runOptions struct {
	owner       string
	repo        string
	ref         string
	triggerPath string
	infoURL     string
	dryRun      bool
}

func bindRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.owner, "owner", "", "Repository owner (default from GITHUB_REPOSITORY)")
	flags.StringVar(&opts.repo, "repo", "", "Repository name, or owner/name (default from GITHUB_REPOSITORY)")
	flags.StringVar(&opts.ref, "ref", "", "Commit SHA or ref to inspect (default GITHUB_SHA)")
	flags.StringVar(&opts.triggerPath, "trigger-path", "", "Watched file path (default trigger.path)")
	flags.StringVar(&opts.infoURL, "info-url", "", "Informational URL embedded in messages (default dispatch.info_url)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Log the messages instead of posting them")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Notify routed teams when the commit modified the trigger path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, ctx, *opts)
		},
	}
	bindRunFlags(cmd, opts)
	return cmd
}

func executeRun(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyRunOptions(base, opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, err := ctx.newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	gh, err := github.New(cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second}),
	)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "github", "init", "", err)
	}
	notifier, err := notifications.NewService(cfg, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "slack", "init", "", err)
	}

	table := routing.FromConfig(cfg.Routing.Teams)
	runner := pipeline.NewRunner(
		gh,
		resolver.New(gh, cfg.Routing.Prefix, cfg.Routing.Selection, logger),
		dispatch.New(table, notifier, logger),
		logger,
		pipeline.WithFailOnDeliveryError(cfg.Dispatch.FailOnDeliveryError),
	)

	_, err = runner.Run(cmd.Context(), pipeline.Params{
		Repo:        github.Repo{Owner: cfg.GitHub.Owner, Name: cfg.GitHub.Repo},
		Ref:         cfg.GitHub.Ref,
		TriggerPath: cfg.Trigger.Path,
		InfoURL:     cfg.Dispatch.InfoURL,
	})
	return err
}

// applyRunOptions overlays command-line flags on a copy of the loaded config
// and checks the run inputs.
func applyRunOptions(base *config.Config, opts runOptions) (*config.Config, error) {
	cfg := *base
	owner, repo := strings.TrimSpace(opts.owner), strings.TrimSpace(opts.repo)
	if owner == "" {
		if o, r, ok := strings.Cut(repo, "/"); ok {
			owner, repo = o, r
		}
	}
	if owner != "" {
		cfg.GitHub.Owner = owner
	}
	if repo != "" {
		cfg.GitHub.Repo = repo
	}
	if ref := strings.TrimSpace(opts.ref); ref != "" {
		cfg.GitHub.Ref = ref
	}
	if path := strings.TrimSpace(opts.triggerPath); path != "" {
		cfg.Trigger.Path = path
	}
	if infoURL := strings.TrimSpace(opts.infoURL); infoURL != "" {
		cfg.Dispatch.InfoURL = infoURL
	}
	if opts.dryRun {
		cfg.Dispatch.DryRun = true
	}

	for _, check := range []func() error{cfg.Validate, cfg.ValidateInputs, cfg.ValidateRepository} {
		if err := check(); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return &cfg, nil
}

func describeRepo(cfg *config.Config) string {
	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", cfg.GitHub.Owner, cfg.GitHub.Repo)
}
