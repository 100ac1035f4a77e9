package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// GitHub contains source-control credentials and the repository context of the run.
type GitHub struct {
	Token          string `toml:"token"`
	APIURL         string `toml:"api_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Owner          string `toml:"owner"`
	Repo           string `toml:"repo"`
	Ref            string `toml:"ref"`
}

// Slack contains messaging credentials.
type Slack struct {
	BotToken       string `toml:"bot_token"`
	APIURL         string `toml:"api_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Trigger names the file whose modification activates the notification pipeline.
type Trigger struct {
	Path string `toml:"path"`
}

// Team maps one pull request label onto one chat channel.
type Team struct {
	Label   string `toml:"label"`
	Channel string `toml:"channel"`
}

// Routing contains the label namespace and the label to channel table.
type Routing struct {
	Prefix    string `toml:"prefix"`
	Selection string `toml:"selection"`
	Teams     []Team `toml:"teams"`
}

// Dispatch contains message delivery settings.
type Dispatch struct {
	InfoURL             string `toml:"info_url"`
	DryRun              bool   `toml:"dry_run"`
	FailOnDeliveryError bool   `toml:"fail_on_delivery_error"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for teamnotify.
//
// Configuration sections by subsystem:
//   - GitHub: token, API endpoint and repository context (owner, repo, ref)
//   - Slack: bot token and API endpoint
//   - Trigger: the watched configuration file path
//   - Routing: label namespace prefix, pull request selection, team routes
//   - Dispatch: informational URL embedded in messages, dry-run, failure policy
//   - Logging: log format and level
type Config struct {
	GitHub   GitHub   `toml:"github"`
	Slack    Slack    `toml:"slack"`
	Trigger  Trigger  `toml:"trigger"`
	Routing  Routing  `toml:"routing"`
	Dispatch Dispatch `toml:"dispatch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultUserConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is not an
// error: defaults and environment inputs are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Arrays of tables append to the destination slice, so the default
		// routes only apply when the file declares none.
		cfg.Routing.Teams = nil
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if cfg.Routing.Teams == nil {
			cfg.Routing.Teams = DefaultTeams()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	defaultPath, err := ExpandPath(defaultUserConfigPath)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// Redacted returns a copy of the config with credentials masked for display.
func (c *Config) Redacted() Config {
	clone := *c
	clone.GitHub.Token = mask(c.GitHub.Token)
	clone.Slack.BotToken = mask(c.Slack.BotToken)
	if len(c.Routing.Teams) > 0 {
		clone.Routing.Teams = append([]Team(nil), c.Routing.Teams...)
	}
	return clone
}

// Encode renders the config as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

func mask(secret string) string {
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "****"
	}
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
