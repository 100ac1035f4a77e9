package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"teamnotify/internal/changes"
	"teamnotify/internal/dispatch"
	"teamnotify/internal/logging"
	"teamnotify/internal/resolver"
	"teamnotify/internal/services"
	"teamnotify/internal/services/github"
)

// State names the position of a run in its state machine.
type State string

const (
	StateStart              State = "start"
	StateCheckTrigger       State = "check_trigger"
	StateSkip               State = "skip"
	StateResolveAndDispatch State = "resolve_and_dispatch"
	StateDone               State = "done"
)

// CommitReader lists the files changed by a commit.
type CommitReader interface {
	GetCommitFiles(ctx context.Context, repo github.Repo, ref string) ([]string, error)
}

// PullRequestResolver selects the pull request behind a commit.
type PullRequestResolver interface {
	Resolve(ctx context.Context, repo github.Repo, ref string) (resolver.PullRequestRef, error)
}

// Notifier fans a pull request out to its routed teams.
type Notifier interface {
	Dispatch(ctx context.Context, pr resolver.PullRequestRef, infoURL string) dispatch.Report
}

// Params carries the repository context of a run.
type Params struct {
	Repo        github.Repo
	Ref         string
	TriggerPath string
	InfoURL     string
}

// Validate reports missing run parameters.
func (p Params) Validate() error {
	if err := p.Repo.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "params", "", err)
	}
	if strings.TrimSpace(p.Ref) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "params", "commit ref is required", nil)
	}
	if strings.TrimSpace(p.TriggerPath) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "params", "trigger path is required", nil)
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	State       State
	Skipped     bool
	PullRequest *resolver.PullRequestRef
	Report      dispatch.Report
}

// Option customizes a Runner.
type Option func(*Runner)

// WithFailOnDeliveryError makes delivery failures fail the run once every
// destination was attempted.
func WithFailOnDeliveryError(enabled bool) Option {
	return func(r *Runner) {
		r.failOnDeliveryError = enabled
	}
}

// Runner executes the check-trigger, resolve and dispatch sequence.
type Runner struct {
	commits             CommitReader
	resolver            PullRequestResolver
	notifier            Notifier
	logger              *slog.Logger
	failOnDeliveryError bool
}

// NewRunner wires the collaborators of a run.
func NewRunner(commits CommitReader, res PullRequestResolver, notifier Notifier, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		commits:  commits,
		resolver: res,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run executes one pass. The trigger path short-circuit returns a skipped
// result without querying pull requests. Errors from the commit query or the
// resolver end the run; delivery failures only do when the runner was built
// with WithFailOnDeliveryError.
func (r *Runner) Run(ctx context.Context, params Params) (Result, error) {
	result := Result{State: StateStart}
	logger := r.logger.With(
		logging.String("repository", params.Repo.String()),
		logging.String("ref", params.Ref),
	)

	if err := params.Validate(); err != nil {
		return result, err
	}

	files, err := r.commits.GetCommitFiles(ctx, params.Repo, params.Ref)
	if err != nil {
		return result, fmt.Errorf("read commit %s: %w", params.Ref, err)
	}

	result.State = StateCheckTrigger
	if !changes.WasTriggerPathModified(files, params.TriggerPath) {
		result.State = StateSkip
		result.Skipped = true
		logger.Info(fmt.Sprintf("%s was not modified, nothing to notify", params.TriggerPath),
			logging.Int("changed_files", len(files)),
		)
		result.State = StateDone
		return result, nil
	}
	logger.Info(fmt.Sprintf("%s was modified", params.TriggerPath),
		logging.Int("changed_files", len(files)),
	)

	result.State = StateResolveAndDispatch
	pr, err := r.resolver.Resolve(ctx, params.Repo, params.Ref)
	if err != nil {
		return result, fmt.Errorf("resolve pull request: %w", err)
	}
	result.PullRequest = &pr

	result.Report = r.notifier.Dispatch(ctx, pr, params.InfoURL)
	result.State = StateDone

	if deliveryErr := result.Report.Err(); deliveryErr != nil {
		if r.failOnDeliveryError {
			return result, fmt.Errorf("%d of %d deliveries failed: %w",
				len(result.Report.Failed()), result.Report.Attempts(), deliveryErr)
		}
		logging.WarnWithContext(logger, "run finished with delivery failures", "delivery_partial",
			logging.Int("failed", len(result.Report.Failed())),
			logging.String(logging.FieldImpact, "some teams were not notified"),
			logging.String(logging.FieldErrorHint, "set dispatch.fail_on_delivery_error to fail the step instead"),
		)
	}
	return result, nil
}
