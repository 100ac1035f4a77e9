// Package config loads, normalizes, and validates teamnotify configuration data.
//
// It supplies repository defaults (trigger path, routing prefix, the built-in
// team routes), reads an optional TOML file, and honours the GitHub Actions
// environment: INPUT_* values for the action inputs plus GITHUB_REPOSITORY,
// GITHUB_SHA and GITHUB_API_URL for the repository context. Environment values
// only fill fields the file left blank.
//
// Structural problems are reported by Load. Missing credentials are reported by
// ValidateInputs so that offline commands (routes, config show) still work.
package config
