package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"teamnotify/internal/services"
)

const (
	defaultTimeout = 30 * time.Second
	defaultPerPage = 100
)

// Repo identifies a repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// Validate reports whether both coordinates are present.
func (r Repo) Validate() error {
	if strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Name) == "" {
		return errors.New("repository owner and name are required")
	}
	return nil
}

// PullRequest is the subset of a pull request the notifier needs.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	Labels    []string
	UpdatedAt time.Time
}

// Client queries commits and their associated pull requests.
type Client struct {
	api     *gh.Client
	perPage int
}

type settings struct {
	httpClient *http.Client
	baseURL    string
	perPage    int
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

// WithBaseURL points the client at a GitHub Enterprise or test API root.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithPerPage sets the page size used when listing commit files and pull requests.
func WithPerPage(perPage int) Option {
	return func(s *settings) {
		if perPage > 0 {
			s.perPage = perPage
		}
	}
}

// New creates a token-authenticated GitHub client.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("github token required")
	}
	cfg := settings{
		httpClient: &http.Client{Timeout: defaultTimeout},
		perPage:    defaultPerPage,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	api := gh.NewClient(cfg.httpClient).WithAuthToken(token)
	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		api.BaseURL = parsed
	}

	return &Client{api: api, perPage: cfg.perPage}, nil
}

// GetCommitFiles returns the paths changed by ref, following pagination.
func (c *Client) GetCommitFiles(ctx context.Context, repo Repo, ref string) ([]string, error) {
	opts := &gh.ListOptions{PerPage: c.perPage}
	var files []string
	for {
		commit, resp, err := c.api.Repositories.GetCommit(ctx, repo.Owner, repo.Name, ref, opts)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalService, "github", "get commit", fmt.Sprintf("%s@%s", repo, ref), err)
		}
		for _, file := range commit.Files {
			files = append(files, file.GetFilename())
		}
		if resp == nil || resp.NextPage == 0 {
			return files, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListPullRequestsForCommit returns the pull requests associated with ref in
// the order GitHub reports them.
func (c *Client) ListPullRequestsForCommit(ctx context.Context, repo Repo, ref string) ([]PullRequest, error) {
	opts := &gh.ListOptions{PerPage: c.perPage}
	var pulls []PullRequest
	for {
		page, resp, err := c.api.PullRequests.ListPullRequestsWithCommit(ctx, repo.Owner, repo.Name, ref, opts)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalService, "github", "list pull requests", fmt.Sprintf("%s@%s", repo, ref), err)
		}
		for _, pr := range page {
			pulls = append(pulls, convertPullRequest(pr))
		}
		if resp == nil || resp.NextPage == 0 {
			return pulls, nil
		}
		opts.Page = resp.NextPage
	}
}

// CheckRepository confirms the token can read repo and returns its full name.
func (c *Client) CheckRepository(ctx context.Context, repo Repo) (string, error) {
	result, _, err := c.api.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "github", "get repository", repo.String(), err)
	}
	return result.GetFullName(), nil
}

func convertPullRequest(pr *gh.PullRequest) PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		Labels:    labels,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

// StatusCode extracts the HTTP status of a failed API call, or 0.
func StatusCode(err error) int {
	var apiErr *gh.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		return apiErr.Response.StatusCode
	}
	return 0
}
