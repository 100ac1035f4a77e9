package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"teamnotify/internal/config"
	"teamnotify/internal/logging"
	"teamnotify/internal/services/slack"
)

// Delivery reports whether the messaging service accepted a message.
type Delivery = slack.Delivery

// Service delivers one text body to one destination channel.
type Service interface {
	Send(ctx context.Context, channel, text string) (Delivery, error)
}

// NewService builds the Slack-backed service, or a dry-run service when
// dispatch.dry_run is set.
func NewService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	if cfg.Dispatch.DryRun {
		return dryRunService{logger: logging.NewComponentLogger(logger, "notifications")}, nil
	}

	timeout := time.Duration(cfg.Slack.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client, err := slack.New(cfg.Slack.BotToken,
		slack.WithAPIURL(cfg.Slack.APIURL),
		slack.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("build slack client: %w", err)
	}
	return slackService{client: client}, nil
}

type slackService struct {
	client *slack.Client
}

func (s slackService) Send(ctx context.Context, channel, text string) (Delivery, error) {
	return s.client.PostMessage(ctx, channel, text)
}

type dryRunService struct {
	logger *slog.Logger
}

func (s dryRunService) Send(_ context.Context, channel, text string) (Delivery, error) {
	s.logger.Info("dry run: message not sent",
		logging.String(logging.FieldChannel, channel),
		logging.Int("length", len(text)),
	)
	return Delivery{OK: true, Channel: channel}, nil
}
