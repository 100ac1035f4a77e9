// Package slack posts chat messages through the Slack Web API.
package slack

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"teamnotify/internal/services"
)

const defaultTimeout = 30 * time.Second

// Delivery is the outcome of one chat.postMessage call that reached Slack.
// OK is false when Slack answered but refused the message (unknown channel,
// bot not in channel, revoked token); Reason carries Slack's error code.
type Delivery struct {
	OK        bool
	Channel   string
	Timestamp string
	Reason    string
}

// Client wraps the Slack Web API client.
type Client struct {
	api *slackapi.Client
}

type settings struct {
	httpClient *http.Client
	apiURL     string
}

// Option configures a Client.
type Option func(*settings)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithAPIURL points the client at an alternative Web API root.
func WithAPIURL(apiURL string) Option {
	return func(s *settings) {
		s.apiURL = strings.TrimSpace(apiURL)
	}
}

// New creates a bot-token authenticated Slack client.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("slack bot token required")
	}
	cfg := settings{httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(&cfg)
	}

	apiOpts := []slackapi.Option{slackapi.OptionHTTPClient(cfg.httpClient)}
	if cfg.apiURL != "" {
		apiURL := cfg.apiURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		apiOpts = append(apiOpts, slackapi.OptionAPIURL(apiURL))
	}
	return &Client{api: slackapi.New(token, apiOpts...)}, nil
}

// PostMessage submits text to channel. A refusal reported by Slack is returned
// as a not-ok Delivery with a nil error; transport and HTTP failures are errors.
func (c *Client) PostMessage(ctx context.Context, channel, text string) (Delivery, error) {
	channelID, timestamp, err := c.api.PostMessageContext(ctx, channel, slackapi.MsgOptionText(text, false))
	if err != nil {
		var refusal slackapi.SlackErrorResponse
		if errors.As(err, &refusal) {
			return Delivery{OK: false, Channel: channel, Reason: refusal.Err}, nil
		}
		return Delivery{Channel: channel}, services.Wrap(services.ErrDelivery, "slack", "post message", channel, err)
	}
	return Delivery{OK: true, Channel: channelID, Timestamp: timestamp}, nil
}

// Identity describes the bot behind the configured token.
type Identity struct {
	Team string
	User string
	URL  string
}

// AuthTest verifies the token and reports the bot identity.
func (c *Client) AuthTest(ctx context.Context) (Identity, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return Identity{}, services.Wrap(services.ErrExternalService, "slack", "auth test", "", err)
	}
	return Identity{Team: resp.Team, User: resp.User, URL: resp.URL}, nil
}
