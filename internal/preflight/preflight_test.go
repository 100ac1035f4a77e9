package preflight

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"teamnotify/internal/config"
	"teamnotify/internal/testsupport"
)

func newGitHubServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/1024pix/pix", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.HasSuffix(got, "ghs_test") {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprint(w, `{"full_name":"1024pix/pix"}`)
			return
		}
		fmt.Fprint(w, `{"message":"denied"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSlackServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth.test" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckGitHub_OK(t *testing.T) {
	srv := newGitHubServer(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithGitHubAPI(srv.URL))

	result := CheckGitHub(context.Background(), cfg.GitHub)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "1024pix/pix") {
		t.Fatalf("expected repository in detail, got %q", result.Detail)
	}
}

func TestCheckGitHub_BadToken(t *testing.T) {
	srv := newGitHubServer(t, http.StatusUnauthorized)
	cfg := testsupport.NewConfig(t, testsupport.WithGitHubAPI(srv.URL))

	result := CheckGitHub(context.Background(), cfg.GitHub)
	if result.Passed {
		t.Fatal("expected failure for bad token")
	}
	if !strings.Contains(result.Detail, "invalid token") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckGitHub_RepositoryHidden(t *testing.T) {
	srv := newGitHubServer(t, http.StatusNotFound)
	cfg := testsupport.NewConfig(t, testsupport.WithGitHubAPI(srv.URL))

	result := CheckGitHub(context.Background(), cfg.GitHub)
	if result.Passed || !strings.Contains(result.Detail, "not readable") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckGitHub_MissingInputs(t *testing.T) {
	result := CheckGitHub(context.Background(), config.GitHub{})
	if result.Passed || result.Detail != "token missing" {
		t.Fatalf("unexpected result %+v", result)
	}
	result = CheckGitHub(context.Background(), config.GitHub{Token: "x"})
	if result.Passed || !strings.Contains(result.Detail, "repository not configured") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckSlack(t *testing.T) {
	ok := newSlackServer(t, `{"ok":true,"team":"Pix","user":"notifier"}`)
	cfg := testsupport.NewConfig(t, testsupport.WithSlackAPI(ok.URL))
	result := CheckSlack(context.Background(), cfg.Slack)
	if !result.Passed || !strings.Contains(result.Detail, "notifier") {
		t.Fatalf("unexpected result %+v", result)
	}

	bad := newSlackServer(t, `{"ok":false,"error":"invalid_auth"}`)
	cfg = testsupport.NewConfig(t, testsupport.WithSlackAPI(bad.URL))
	result = CheckSlack(context.Background(), cfg.Slack)
	if result.Passed || !strings.Contains(result.Detail, "invalid_auth") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckRouting(t *testing.T) {
	if result := CheckRouting(config.Default().Routing); !result.Passed {
		t.Fatalf("default table should pass, got %s", result.Detail)
	}

	dup := config.Routing{Prefix: "team-", Teams: []config.Team{
		{Label: "team-a", Channel: "one"},
		{Label: "team-a", Channel: "two"},
	}}
	result := CheckRouting(dup)
	if result.Passed || !strings.Contains(result.Detail, "team-a") {
		t.Fatalf("expected duplicate label failure, got %+v", result)
	}

	if result := CheckRouting(config.Routing{Prefix: "team-"}); result.Passed {
		t.Fatal("expected failure for empty table")
	}
}

func TestCheckInfoURL(t *testing.T) {
	tests := []struct {
		raw  string
		pass bool
	}{
		{raw: "https://integration.example.com", pass: true},
		{raw: "", pass: false},
		{raw: "integration.example.com", pass: false},
	}
	for _, tc := range tests {
		if got := CheckInfoURL(tc.raw).Passed; got != tc.pass {
			t.Errorf("CheckInfoURL(%q) passed=%v, want %v", tc.raw, got, tc.pass)
		}
	}
}

func TestRunAllSkipsSlackInDryRun(t *testing.T) {
	srv := newGitHubServer(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithGitHubAPI(srv.URL), testsupport.WithDryRun())
	cfg.Slack.BotToken = ""

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected four results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
	if results[1].Name != "Slack" || !strings.Contains(results[1].Detail, "dry run") {
		t.Fatalf("unexpected slack result %+v", results[1])
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
