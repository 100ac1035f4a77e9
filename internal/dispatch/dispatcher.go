package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"teamnotify/internal/logging"
	"teamnotify/internal/notifications"
	"teamnotify/internal/resolver"
	"teamnotify/internal/routing"
	"teamnotify/internal/services"
)

// Dispatcher posts one notification per routed label of a pull request.
type Dispatcher struct {
	table    routing.Table
	notifier notifications.Service
	logger   *slog.Logger
}

// New constructs a dispatcher over the given routing table.
func New(table routing.Table, notifier notifications.Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		table:    table,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Dispatch walks the pull request labels in order. Every label yields exactly
// one outcome; a failed delivery never prevents the remaining labels from
// being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, pr resolver.PullRequestRef, infoURL string) Report {
	report := Report{Outcomes: make([]Outcome, 0, len(pr.Labels))}
	if len(pr.Labels) == 0 {
		d.logger.Info("no routing labels on pull request", logging.Int(logging.FieldPullRequest, pr.Number))
		return report
	}

	body := notifications.ConfigChangedMessage(pr.Title, infoURL)
	for _, label := range pr.Labels {
		report.Outcomes = append(report.Outcomes, d.deliver(ctx, label, body))
	}

	d.logSummary(pr, report)
	return report
}

func (d *Dispatcher) deliver(ctx context.Context, label, body string) Outcome {
	channel, ok := d.table.Resolve(label)
	if !ok {
		logging.WarnWithContext(d.logger, fmt.Sprintf("No team found with github label %s", label), "label_unroutable",
			logging.String(logging.FieldLabel, label),
			logging.String(logging.FieldErrorHint, "add the label to [[routing.teams]] or remove it from the pull request"),
			logging.String(logging.FieldImpact, "no team notified for this label"),
		)
		return Outcome{Label: label, Status: StatusUnroutable}
	}

	outcome := Outcome{Label: label, Channel: channel}
	if err := ctx.Err(); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = services.Wrap(services.ErrDelivery, "dispatch", "post message", channel, err)
		d.warnDelivery(outcome)
		return outcome
	}

	delivery, err := d.notifier.Send(ctx, channel, body)
	switch {
	case err != nil:
		outcome.Status = StatusFailed
		outcome.Err = err
		d.warnDelivery(outcome)
	case !delivery.OK:
		outcome.Status = StatusRejected
		outcome.Reason = delivery.Reason
		outcome.Err = services.Wrap(services.ErrDelivery, "dispatch", "post message",
			fmt.Sprintf("%s rejected: %s", channel, delivery.Reason), nil)
		d.warnDelivery(outcome)
	default:
		outcome.Status = StatusSent
		outcome.Timestamp = delivery.Timestamp
		d.logger.Info(fmt.Sprintf("Message sent to channel %s", channel),
			logging.String(logging.FieldLabel, label),
			logging.String(logging.FieldChannel, channel),
		)
	}
	return outcome
}

func (d *Dispatcher) warnDelivery(outcome Outcome) {
	attrs := []logging.Attr{
		logging.String(logging.FieldLabel, outcome.Label),
		logging.String(logging.FieldChannel, outcome.Channel),
		logging.String(logging.FieldImpact, "team was not notified"),
		logging.Error(outcome.Err),
	}
	hint := "check the slack bot token and that the bot is a member of the channel"
	if outcome.Reason == "channel_not_found" {
		hint = "check the channel name in [[routing.teams]]"
	}
	attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	logging.WarnWithContext(d.logger, fmt.Sprintf("Message not delivered to channel %s", outcome.Channel), "delivery_"+string(outcome.Status), attrs...)
}

func (d *Dispatcher) logSummary(pr resolver.PullRequestRef, report Report) {
	attrs := []logging.Attr{
		logging.Int(logging.FieldPullRequest, pr.Number),
		logging.Int("sent", len(report.Sent())),
		logging.Int("unroutable", len(report.Unroutable())),
		logging.Int("failed", len(report.Failed())),
	}
	d.logger.Info("dispatch finished", logging.Args(attrs...)...)
}
