package config

const (
	defaultUserConfigPath  = "~/.config/teamnotify/config.toml"
	projectConfigName      = "teamnotify.toml"
	defaultGitHubAPIURL    = "https://api.github.com/"
	defaultSlackAPIURL     = "https://slack.com/api/"
	defaultRequestTimeout  = 30
	defaultTriggerPath     = "api/lib/config.js"
	defaultRoutingPrefix   = "team-"
	defaultSelection       = SelectionFirst
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	githubActionsLogFormat = "github"
	githubActionsEnvMarker = "GITHUB_ACTIONS"
	githubRepositoryEnv    = "GITHUB_REPOSITORY"
	githubSHAEnv           = "GITHUB_SHA"
	githubAPIURLEnv        = "GITHUB_API_URL"
)

// Pull request selection policies used when a commit has several associated pull requests.
const (
	SelectionFirst  = "first"
	SelectionStrict = "strict"
	SelectionLatest = "latest"
)

// DefaultTeams returns the built-in label to channel routes.
func DefaultTeams() []Team {
	return []Team{
		{Label: "team-prescription", Channel: "team-dev-prescription"},
		{Label: "team-certif", Channel: "team-dev-certification"},
		{Label: "team-captains", Channel: "team-captains"},
		{Label: "team-acces", Channel: "team-dev-accès"},
		{Label: "team-evaluation", Channel: "team-dev-évaluation"},
		{Label: "team-contenu", Channel: "team-dev-contenus"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		GitHub: GitHub{
			APIURL:         defaultGitHubAPIURL,
			TimeoutSeconds: defaultRequestTimeout,
		},
		Slack: Slack{
			APIURL:         defaultSlackAPIURL,
			TimeoutSeconds: defaultRequestTimeout,
		},
		Trigger: Trigger{
			Path: defaultTriggerPath,
		},
		Routing: Routing{
			Prefix:    defaultRoutingPrefix,
			Selection: defaultSelection,
			Teams:     DefaultTeams(),
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
