package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teamnotify/internal/services"
)

const scenarioPulls = `[{
	"number": 7,
	"title": "Add new environment variable",
	"html_url": "https://github.com/1024pix/pix/pull/7",
	"updated_at": "2024-06-01T12:00:00Z",
	"labels": [{"name":"team-prescription"},{"name":"team-unknown"},{"name":"bug"}]
}]`

func TestRunScenarioPostsToRoutedChannel(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"api/index.js", "api/lib/config.js"}, scenarioPulls)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}

	posts := env.sentPosts()
	if len(posts) != 1 {
		t.Fatalf("expected one post, got %+v", posts)
	}
	if posts[0].channel != "team-dev-prescription" {
		t.Fatalf("unexpected channel %q", posts[0].channel)
	}
	requireContains(t, posts[0].text, "Add new environment variable")
	requireContains(t, posts[0].text, "https://integration.example.com/env")
	requireContains(t, out, "No team found with github label team-unknown")
	requireContains(t, out, `"run_id"`)
}

func TestRootCommandRunsByDefault(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"api/lib/config.js"}, scenarioPulls)

	if _, _, err := runCLI(t, nil, env.configPath); err != nil {
		t.Fatalf("root: %v", err)
	}
	if len(env.sentPosts()) != 1 {
		t.Fatalf("expected one post, got %+v", env.sentPosts())
	}
}

func TestRunSkipsWithoutQueryingPullRequests(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"README.md"}, scenarioPulls)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if env.pullQueries() != 0 {
		t.Fatalf("expected no pull request queries, got %d", env.pullQueries())
	}
	if len(env.sentPosts()) != 0 {
		t.Fatal("expected no posts")
	}
	requireContains(t, out, "was not modified")
}

func TestRunWithoutPullRequestFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"api/lib/config.js"}, `[]`)

	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure")
	}
	requireContains(t, err.Error(), "no pull request associated with commit")
	if code := services.ExitCode(err); code != services.ExitFailure {
		t.Fatalf("unexpected exit code %d", code)
	}
	if len(env.sentPosts()) != 0 {
		t.Fatal("expected no posts")
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"config/settings.yaml"}, scenarioPulls)

	_, _, err := runCLI(t, []string{"run", "--repo", "1024pix/pix", "--trigger-path", "config/settings.yaml", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if env.pullQueries() != 1 {
		t.Fatalf("expected the override trigger to match, got %d pull queries", env.pullQueries())
	}
	if len(env.sentPosts()) != 0 {
		t.Fatal("dry run must not post")
	}
}

func TestRunMissingTokenIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t)
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	stripped := strings.Replace(string(data), `bot_token = "xoxb-testtoken"`, `bot_token = ""`, 1)
	if err := os.WriteFile(env.configPath, []byte(stripped), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err = runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if code := services.ExitCode(err); code != services.ExitConfiguration {
		t.Fatalf("unexpected exit code %d", code)
	}
	requireContains(t, err.Error(), "slack.bot_token")
}

func TestInvalidConfigFileIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env, "unknown_key = true\n")

	_, _, err := runCLI(t, []string{"routes"}, env.configPath)
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %v", err)
	}
}

func TestRoutesCommandRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env, `
[[routing.teams]]
label = "team-prescription"
channel = "elsewhere"
`)

	out, _, err := runCLI(t, []string{"routes"}, env.configPath)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	requireContains(t, out, "team-prescription")
	requireContains(t, out, "#team-dev-prescription")
	requireContains(t, out, "shadowed")
}

func TestCheckCommandReportsServices(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Preflight")
	requireContains(t, out, "[OK] 1024pix/pix readable")
	requireContains(t, out, "[OK] authenticated as notifier in Pix")
	requireContains(t, out, "1 teams under prefix")
}

func TestCheckCommandFailsOnBadInfoURL(t *testing.T) {
	env := setupCLITestEnv(t)
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	stripped := strings.Replace(string(data), `info_url = "https://integration.example.com/env"`, `info_url = ""`, 1)
	if err := os.WriteFile(env.configPath, []byte(stripped), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	requireContains(t, out, "[ERROR] missing")
}

func TestTestNotifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify", "--channel", "#team-captains"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent to #team-captains")
	posts := env.sentPosts()
	if len(posts) != 1 || posts[0].channel != "team-captains" {
		t.Fatalf("unexpected posts %+v", posts)
	}
	requireContains(t, posts[0].text, "1024pix/pix")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "loaded from")
	requireContains(t, out, "ghs_****")
	if strings.Contains(out, "ghs_testtoken") {
		t.Fatalf("token leaked in output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestEnvFileProvidesInputs(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCommit([]string{"api/lib/config.js"}, scenarioPulls)
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	stripped := strings.Replace(string(data), `info_url = "https://integration.example.com/env"`, `info_url = ""`, 1)
	if err := os.WriteFile(env.configPath, []byte(stripped), 0o644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(t.TempDir(), "ci.env")
	if err := os.WriteFile(envFile, []byte("INTEGRATION_ENV_URL=https://from-dotenv.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that exist, even empty ones.
	os.Unsetenv("INTEGRATION_ENV_URL")

	if _, _, err := runCLI(t, []string{"--env-file", envFile, "run"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	posts := env.sentPosts()
	if len(posts) != 1 {
		t.Fatalf("expected one post, got %+v", posts)
	}
	requireContains(t, posts[0].text, "https://from-dotenv.example.com")
}

func TestReportErrorFormats(t *testing.T) {
	setupCLITestEnv(t)
	err := errors.New("boom\nsecond line")

	var stdout, stderr bytes.Buffer
	reportError(&stdout, &stderr, err)
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "boom") {
		t.Fatalf("expected plain stderr output, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	stdout.Reset()
	stderr.Reset()
	reportError(&stdout, &stderr, err)
	if got := strings.TrimSpace(stdout.String()); got != "::error::boom%0Asecond line" {
		t.Fatalf("unexpected workflow command %q", got)
	}
}
