package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeGitHub()
	c.normalizeSlack()
	c.normalizeTrigger()
	c.normalizeRouting()
	c.normalizeDispatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeGitHub() {
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	if c.GitHub.Token == "" {
		c.GitHub.Token = lookupEnv("INPUT_GITHUB_TOKEN", "GITHUB_TOKEN")
	}

	c.GitHub.APIURL = strings.TrimSpace(c.GitHub.APIURL)
	if c.GitHub.APIURL == "" || c.GitHub.APIURL == defaultGitHubAPIURL {
		if value := lookupEnv(githubAPIURLEnv); value != "" {
			c.GitHub.APIURL = value
		}
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = defaultGitHubAPIURL
	}
	c.GitHub.APIURL = withTrailingSlash(c.GitHub.APIURL)

	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = defaultRequestTimeout
	}

	c.GitHub.Owner = strings.TrimSpace(c.GitHub.Owner)
	c.GitHub.Repo = strings.TrimSpace(c.GitHub.Repo)
	if c.GitHub.Owner == "" && c.GitHub.Repo == "" {
		c.GitHub.Repo = lookupEnv(githubRepositoryEnv)
	}
	if c.GitHub.Owner == "" {
		if owner, repo, ok := strings.Cut(c.GitHub.Repo, "/"); ok {
			c.GitHub.Owner = strings.TrimSpace(owner)
			c.GitHub.Repo = strings.TrimSpace(repo)
		}
	}

	c.GitHub.Ref = strings.TrimSpace(c.GitHub.Ref)
	if c.GitHub.Ref == "" {
		c.GitHub.Ref = lookupEnv(githubSHAEnv)
	}
}

func (c *Config) normalizeSlack() {
	c.Slack.BotToken = strings.TrimSpace(c.Slack.BotToken)
	if c.Slack.BotToken == "" {
		c.Slack.BotToken = lookupEnv("INPUT_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN")
	}
	c.Slack.APIURL = strings.TrimSpace(c.Slack.APIURL)
	if c.Slack.APIURL == "" {
		c.Slack.APIURL = defaultSlackAPIURL
	}
	c.Slack.APIURL = withTrailingSlash(c.Slack.APIURL)
	if c.Slack.TimeoutSeconds <= 0 {
		c.Slack.TimeoutSeconds = defaultRequestTimeout
	}
}

func (c *Config) normalizeTrigger() {
	// Only surrounding whitespace is removed; separators and case must match the
	// form GitHub reports.
	c.Trigger.Path = strings.TrimSpace(c.Trigger.Path)
	if c.Trigger.Path == "" {
		c.Trigger.Path = defaultTriggerPath
	}
}

func (c *Config) normalizeRouting() {
	if strings.TrimSpace(c.Routing.Prefix) == "" {
		c.Routing.Prefix = defaultRoutingPrefix
	}
	c.Routing.Selection = strings.ToLower(strings.TrimSpace(c.Routing.Selection))
	if c.Routing.Selection == "" {
		c.Routing.Selection = defaultSelection
	}
	teams := make([]Team, 0, len(c.Routing.Teams))
	for _, team := range c.Routing.Teams {
		team.Label = strings.TrimSpace(team.Label)
		team.Channel = strings.TrimPrefix(strings.TrimSpace(team.Channel), "#")
		if team.Label == "" && team.Channel == "" {
			continue
		}
		teams = append(teams, team)
	}
	c.Routing.Teams = teams
}

func (c *Config) normalizeDispatch() {
	c.Dispatch.InfoURL = strings.TrimSpace(c.Dispatch.InfoURL)
	if c.Dispatch.InfoURL == "" {
		c.Dispatch.InfoURL = lookupEnv("INPUT_INTEGRATION_ENV_URL", "INTEGRATION_ENV_URL")
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
		if InGitHubActions() {
			c.Logging.Format = githubActionsLogFormat
		}
	case "console", "json", githubActionsLogFormat:
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// InGitHubActions reports whether the process runs inside a GitHub Actions job.
func InGitHubActions() bool {
	return strings.EqualFold(lookupEnv(githubActionsEnvMarker), "true")
}

// lookupEnv returns the first non-blank value among the given variables.
func lookupEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func withTrailingSlash(value string) string {
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
