package notifications_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"teamnotify/internal/config"
	"teamnotify/internal/logging"
	"teamnotify/internal/notifications"
)

func TestConfigChangedMessageEmbedsTitleAndURL(t *testing.T) {
	body := notifications.ConfigChangedMessage("Add new environment variable", "https://integration.example.com/env")
	want := "Le fichier de configuration a été modifié dans la PR *Add new environment variable*\n Vérifiez les variables d'environnement d' <https://integration.example.com/env|intégration>"
	if body != want {
		t.Fatalf("unexpected body:\n%q\nwant\n%q", body, want)
	}
	if again := notifications.ConfigChangedMessage("Add new environment variable", "https://integration.example.com/env"); again != body {
		t.Fatal("expected deterministic body")
	}
}

func TestTestMessage(t *testing.T) {
	if !strings.Contains(notifications.TestMessage("acme/widgets"), "acme/widgets") {
		t.Fatal("expected repository in test message")
	}
	if notifications.TestMessage(" ") == "" {
		t.Fatal("expected default test message")
	}
}

func TestDryRunServiceDoesNotCallSlack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected slack call: %s", r.URL.Path)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Slack.APIURL = server.URL
	cfg.Dispatch.DryRun = true

	svc, err := notifications.NewService(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	delivery, err := svc.Send(context.Background(), "team-dev-prescription", "body")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !delivery.OK || delivery.Channel != "team-dev-prescription" {
		t.Fatalf("unexpected delivery %+v", delivery)
	}
}

func TestSlackServicePostsMessage(t *testing.T) {
	var captured struct {
		channel string
		text    string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		captured.channel = r.FormValue("channel")
		captured.text = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true,"channel":"C1","ts":"1.2"}`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Slack.BotToken = "xoxb-test"
	cfg.Slack.APIURL = server.URL + "/"

	svc, err := notifications.NewService(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	delivery, err := svc.Send(context.Background(), "team-captains", "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !delivery.OK {
		t.Fatalf("expected ok delivery, got %+v", delivery)
	}
	if captured.channel != "team-captains" || captured.text != "hello" {
		t.Fatalf("unexpected request %+v", captured)
	}
}

func TestNewServiceRequiresTokenWhenLive(t *testing.T) {
	cfg := config.Default()
	if _, err := notifications.NewService(&cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error without slack token")
	}
}
