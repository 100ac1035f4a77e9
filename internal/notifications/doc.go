// Package notifications composes team messages and hands them to a delivery
// transport.
//
// The default implementation posts to Slack using the configured bot token.
// When dispatch.dry_run is set a logging-only implementation is returned that
// reports every message as delivered without contacting Slack. Message text is
// built from fixed templates so repeated runs produce identical bodies.
package notifications
