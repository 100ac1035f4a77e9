package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var actionEnv = []string{
	"INPUT_GITHUB_TOKEN", "GITHUB_TOKEN",
	"INPUT_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN",
	"INPUT_INTEGRATION_ENV_URL", "INTEGRATION_ENV_URL",
	"GITHUB_REPOSITORY", "GITHUB_SHA", "GITHUB_API_URL", "GITHUB_ACTIONS",
}

type cliTestEnv struct {
	github     *httptest.Server
	slack      *httptest.Server
	configPath string

	mu       sync.Mutex
	files    []string
	pulls    string
	posts    []slackPost
	pullHits int
}

type slackPost struct {
	channel string
	text    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	for _, key := range actionEnv {
		t.Setenv(key, "")
	}
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Chdir(base)

	env := &cliTestEnv{pulls: `[]`}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/1024pix/pix", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"full_name":"1024pix/pix"}`)
	})
	mux.HandleFunc("/repos/1024pix/pix/commits/abc123", func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		defer env.mu.Unlock()
		parts := make([]string, 0, len(env.files))
		for _, f := range env.files {
			parts = append(parts, fmt.Sprintf(`{"filename":%q}`, f))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sha":"abc123","files":[%s]}`, strings.Join(parts, ","))
	})
	mux.HandleFunc("/repos/1024pix/pix/commits/abc123/pulls", func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.pullHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, env.pulls)
	})
	env.github = httptest.NewServer(mux)
	t.Cleanup(env.github.Close)

	env.slack = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/chat.postMessage":
			env.mu.Lock()
			env.posts = append(env.posts, slackPost{channel: r.FormValue("channel"), text: r.FormValue("text")})
			env.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"channel":"C1","ts":"1700000000.000100"}`)
		case "/auth.test":
			fmt.Fprint(w, `{"ok":true,"team":"Pix","user":"notifier"}`)
		default:
			t.Errorf("unexpected slack call %s", r.URL.Path)
		}
	}))
	t.Cleanup(env.slack.Close)

	env.configPath = filepath.Join(base, "teamnotify.toml")
	writeTestConfig(t, env.configPath, env, "")
	return env
}

// writeTestConfig writes a complete configuration pointing at the fake
// servers. extra is appended verbatim.
func writeTestConfig(t *testing.T, path string, env *cliTestEnv, extra string) {
	t.Helper()
	content := fmt.Sprintf(`[github]
token = "ghs_testtoken"
api_url = %q
owner = "1024pix"
repo = "pix"
ref = "abc123"

[slack]
bot_token = "xoxb-testtoken"
api_url = %q

[routing]
prefix = "team-"

[[routing.teams]]
label = "team-prescription"
channel = "team-dev-prescription"

[dispatch]
info_url = "https://integration.example.com/env"

[logging]
format = "json"
%s`, env.github.URL+"/", env.slack.URL+"/", extra)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) setCommit(files []string, pulls string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = files
	e.pulls = pulls
}

func (e *cliTestEnv) sentPosts() []slackPost {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]slackPost(nil), e.posts...)
}

func (e *cliTestEnv) pullQueries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pullHits
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
