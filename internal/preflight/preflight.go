package preflight

import (
	"context"

	"teamnotify/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The Slack check is skipped in dry-run mode since nothing is posted.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckGitHub(ctx, cfg.GitHub),
	}
	if cfg.Dispatch.DryRun {
		results = append(results, Result{Name: slackCheckName, Passed: true, Detail: "skipped (dry run)"})
	} else {
		results = append(results, CheckSlack(ctx, cfg.Slack))
	}
	results = append(results, CheckRouting(cfg.Routing))
	results = append(results, CheckInfoURL(cfg.Dispatch.InfoURL))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
