package testsupport

import (
	"testing"

	"teamnotify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a complete, valid configuration for tests. Tokens, the
// repository context and the info URL are filled with placeholders so the
// result passes ValidateInputs without touching the environment.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.GitHub.Token = "ghs_test"
	cfgVal.GitHub.Owner = "1024pix"
	cfgVal.GitHub.Repo = "pix"
	cfgVal.GitHub.Ref = "0123456789abcdef"
	cfgVal.Slack.BotToken = "xoxb-test"
	cfgVal.Dispatch.InfoURL = "https://integration.example.com/env"
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithGitHubAPI points the source-control client at a test server.
func WithGitHubAPI(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GitHub.APIURL = url + "/"
	}
}

// WithSlackAPI points the messaging client at a test server.
func WithSlackAPI(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Slack.APIURL = url + "/"
	}
}

// WithTeams replaces the routing table.
func WithTeams(teams ...config.Team) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Routing.Teams = teams
	}
}

// WithDryRun enables dry-run dispatch.
func WithDryRun() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dispatch.DryRun = true
	}
}
