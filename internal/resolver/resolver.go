// Package resolver maps a commit to the pull request that represents it and
// the routing labels attached to that pull request.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"teamnotify/internal/config"
	"teamnotify/internal/logging"
	"teamnotify/internal/routing"
	"teamnotify/internal/services"
	"teamnotify/internal/services/github"
)

var (
	// ErrNoAssociatedPullRequest reports a commit with no associated pull request.
	ErrNoAssociatedPullRequest = fmt.Errorf("%w: no pull request associated with commit", services.ErrNotFound)
	// ErrAmbiguousPullRequest reports several associated pull requests under the strict policy.
	ErrAmbiguousPullRequest = fmt.Errorf("%w: several pull requests associated with commit", services.ErrValidation)
)

// PullRequestLister is the source-control query the resolver consumes.
type PullRequestLister interface {
	ListPullRequestsForCommit(ctx context.Context, repo github.Repo, ref string) ([]github.PullRequest, error)
}

// PullRequestRef is the selected pull request with its labels narrowed to the
// routing namespace, in the order the source-control service returned them.
type PullRequestRef struct {
	Number int
	Title  string
	URL    string
	Labels []string
}

// Resolver selects the representative pull request of a commit.
type Resolver struct {
	source    PullRequestLister
	prefix    string
	selection string
	logger    *slog.Logger
}

// New constructs a resolver. An empty selection means config.SelectionFirst.
func New(source PullRequestLister, prefix, selection string, logger *slog.Logger) *Resolver {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		selection = config.SelectionFirst
	}
	return &Resolver{
		source:    source,
		prefix:    prefix,
		selection: selection,
		logger:    logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve queries the pull requests associated with ref and returns the
// selected one. Source-control errors are returned as-is.
func (r *Resolver) Resolve(ctx context.Context, repo github.Repo, ref string) (PullRequestRef, error) {
	pulls, err := r.source.ListPullRequestsForCommit(ctx, repo, ref)
	if err != nil {
		return PullRequestRef{}, err
	}
	if len(pulls) == 0 {
		return PullRequestRef{}, fmt.Errorf("%w %s in %s", ErrNoAssociatedPullRequest, ref, repo)
	}

	selected, err := r.selectPullRequest(pulls)
	if err != nil {
		return PullRequestRef{}, fmt.Errorf("%w: %s in %s has %d", err, ref, repo, len(pulls))
	}
	if len(pulls) > 1 {
		r.logger.Info("several pull requests associated with commit",
			logging.Int("count", len(pulls)),
			logging.String("selection", r.selection),
			logging.Int(logging.FieldPullRequest, selected.Number),
		)
	}

	labels := routing.FilterNamespace(selected.Labels, r.prefix)
	r.logger.Info(fmt.Sprintf("Labels %s found.", strings.Join(labels, ",")),
		logging.Int(logging.FieldPullRequest, selected.Number),
		logging.Int("count", len(labels)),
	)

	return PullRequestRef{
		Number: selected.Number,
		Title:  selected.Title,
		URL:    selected.URL,
		Labels: labels,
	}, nil
}

func (r *Resolver) selectPullRequest(pulls []github.PullRequest) (github.PullRequest, error) {
	switch r.selection {
	case config.SelectionStrict:
		if len(pulls) > 1 {
			return github.PullRequest{}, ErrAmbiguousPullRequest
		}
		return pulls[0], nil
	case config.SelectionLatest:
		latest := pulls[0]
		for _, pr := range pulls[1:] {
			if pr.UpdatedAt.After(latest.UpdatedAt) {
				latest = pr
			}
		}
		return latest, nil
	default:
		return pulls[0], nil
	}
}
