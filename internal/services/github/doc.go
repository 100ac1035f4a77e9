// Package github wraps the GitHub REST API calls teamnotify needs: the files
// changed by a commit and the pull requests associated with it.
//
// Responses are flattened into plain structs (file paths, PullRequest) so the
// pipeline never depends on go-github types directly. All failures are tagged
// with services.ErrExternalService and keep the underlying API error reachable
// through errors.As.
package github
