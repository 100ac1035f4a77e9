// Package main hosts the teamnotify CLI entrypoint and command graph.
//
// Invoked without a subcommand, teamnotify performs one notification run for
// the commit described by the GitHub Actions environment: when the watched
// configuration file changed, every team label on the associated pull
// request is routed to its Slack channel. The remaining commands (check,
// routes, test-notify, config) inspect and exercise the same configuration
// locally.
//
// Keep this package lean: behavior lives in the internal packages and is only
// wired together here.
package main
