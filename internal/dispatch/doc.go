// Package dispatch turns the routing labels of a pull request into chat
// notifications.
//
// Labels are processed sequentially in the order the pull request carries
// them. Each label produces one Outcome: sent, unroutable, rejected by the
// messaging service, or failed in transport. The Report returned by Dispatch
// aggregates those outcomes; callers decide whether delivery failures should
// fail the run.
package dispatch
