// Package preflight provides readiness checks for the external services and
// configuration that teamnotify depends on.
//
// The CLI "teamnotify check" command runs RunAll and renders each Result as a
// status line. Every network check makes a single attempt under its own
// timeout so a broken credential is reported instead of retried.
package preflight
