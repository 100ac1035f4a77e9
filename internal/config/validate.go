package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is structurally usable. Credentials are
// checked separately by ValidateInputs so offline commands work without them.
func (c *Config) Validate() error {
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateTrigger(); err != nil {
		return err
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	return nil
}

// ValidateInputs checks the required run inputs: both access credentials and
// the informational URL. The Slack token may be omitted for dry runs.
func (c *Config) ValidateInputs() error {
	if c.GitHub.Token == "" {
		return errors.New("github.token is required. Set the GITHUB_TOKEN input or env var")
	}
	if c.Slack.BotToken == "" && !c.Dispatch.DryRun {
		return errors.New("slack.bot_token is required. Set the SLACK_BOT_TOKEN input or env var")
	}
	if c.Dispatch.InfoURL == "" {
		return errors.New("dispatch.info_url is required. Set the INTEGRATION_ENV_URL input or env var")
	}
	return nil
}

// ValidateRepository checks that the repository context of the run is known.
func (c *Config) ValidateRepository() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github.owner and github.repo must be set (or %s in owner/repo form)", githubRepositoryEnv)
	}
	if c.GitHub.Ref == "" {
		return fmt.Errorf("github.ref must be set (or %s)", githubSHAEnv)
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	if err := ensureAbsoluteURL("github.api_url", c.GitHub.APIURL); err != nil {
		return err
	}
	if err := ensureAbsoluteURL("slack.api_url", c.Slack.APIURL); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"github.timeout_seconds": c.GitHub.TimeoutSeconds,
		"slack.timeout_seconds":  c.Slack.TimeoutSeconds,
	})
}

func (c *Config) validateTrigger() error {
	if c.Trigger.Path == "" {
		return errors.New("trigger.path must be set")
	}
	return nil
}

func (c *Config) validateRouting() error {
	switch c.Routing.Selection {
	case SelectionFirst, SelectionStrict, SelectionLatest:
	default:
		return fmt.Errorf("routing.selection must be one of %s, %s, %s (got %q)", SelectionFirst, SelectionStrict, SelectionLatest, c.Routing.Selection)
	}
	for i, team := range c.Routing.Teams {
		if team.Label == "" {
			return fmt.Errorf("routing.teams[%d].label must be set", i)
		}
		if team.Channel == "" {
			return fmt.Errorf("routing.teams[%d].channel must be set for label %q", i, team.Label)
		}
		if !strings.HasPrefix(team.Label, c.Routing.Prefix) {
			return fmt.Errorf("routing.teams[%d].label %q does not start with routing.prefix %q", i, team.Label, c.Routing.Prefix)
		}
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.InfoURL == "" {
		return nil
	}
	return ensureAbsoluteURL("dispatch.info_url", c.Dispatch.InfoURL)
}

func ensureAbsoluteURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL (got %q)", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host (got %q)", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
