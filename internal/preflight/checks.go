package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"teamnotify/internal/config"
	"teamnotify/internal/routing"
	"teamnotify/internal/services/github"
	"teamnotify/internal/services/slack"
)

const (
	githubCheckName  = "GitHub"
	slackCheckName   = "Slack"
	routingCheckName = "Routing table"
	infoURLCheckName = "Info URL"
	checkTimeout     = 10 * time.Second
)

// CheckGitHub verifies the token can read the configured repository. It reads
// the repository rather than the authenticated user because workflow tokens
// are not allowed to query the user endpoint.
func CheckGitHub(ctx context.Context, cfg config.GitHub) Result {
	if strings.TrimSpace(cfg.Token) == "" {
		return Result{Name: githubCheckName, Detail: "token missing"}
	}
	repo := github.Repo{Owner: cfg.Owner, Name: cfg.Repo}
	if err := repo.Validate(); err != nil {
		return Result{Name: githubCheckName, Detail: fmt.Sprintf("repository not configured (%v)", err)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := github.New(cfg.Token,
		github.WithBaseURL(cfg.APIURL),
		github.WithHTTPClient(&http.Client{Timeout: checkTimeout}),
	)
	if err != nil {
		return Result{Name: githubCheckName, Detail: err.Error()}
	}
	fullName, err := client.CheckRepository(checkCtx, repo)
	if err != nil {
		switch github.StatusCode(err) {
		case http.StatusUnauthorized:
			return Result{Name: githubCheckName, Detail: "auth failed (invalid token)"}
		case http.StatusNotFound, http.StatusForbidden:
			return Result{Name: githubCheckName, Detail: fmt.Sprintf("repository %s not readable with this token", repo)}
		}
		return Result{Name: githubCheckName, Detail: summarizeError(err)}
	}
	return Result{Name: githubCheckName, Passed: true, Detail: fmt.Sprintf("%s readable", fullName)}
}

// CheckSlack verifies the bot token with auth.test.
func CheckSlack(ctx context.Context, cfg config.Slack) Result {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return Result{Name: slackCheckName, Detail: "bot token missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := slack.New(cfg.BotToken,
		slack.WithAPIURL(cfg.APIURL),
		slack.WithHTTPClient(&http.Client{Timeout: checkTimeout}),
	)
	if err != nil {
		return Result{Name: slackCheckName, Detail: err.Error()}
	}
	identity, err := client.AuthTest(checkCtx)
	if err != nil {
		return Result{Name: slackCheckName, Detail: summarizeError(err)}
	}
	return Result{Name: slackCheckName, Passed: true, Detail: fmt.Sprintf("authenticated as %s in %s", identity.User, identity.Team)}
}

// CheckRouting reports an empty table and entries shadowed by an earlier
// entry for the same label.
func CheckRouting(cfg config.Routing) Result {
	table := routing.FromConfig(cfg.Teams)
	if table.Len() == 0 {
		return Result{Name: routingCheckName, Detail: "no teams configured"}
	}
	if shadowed := table.Shadowed(); len(shadowed) > 0 {
		labels := make([]string, 0, len(shadowed))
		for _, entry := range shadowed {
			labels = append(labels, entry.Label)
		}
		return Result{Name: routingCheckName, Detail: fmt.Sprintf("duplicate labels never routed: %s", strings.Join(labels, ", "))}
	}
	return Result{Name: routingCheckName, Passed: true, Detail: fmt.Sprintf("%d teams under prefix %q", table.Len(), cfg.Prefix)}
}

// CheckInfoURL verifies the URL embedded in notifications is set and absolute.
func CheckInfoURL(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{Name: infoURLCheckName, Detail: "missing"}
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Result{Name: infoURLCheckName, Detail: fmt.Sprintf("%s (not an absolute url)", raw)}
	}
	return Result{Name: infoURLCheckName, Passed: true, Detail: raw}
}

// summarizeError produces a human-readable summary for failed service checks.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (service unreachable)"
	}
	return err.Error()
}
