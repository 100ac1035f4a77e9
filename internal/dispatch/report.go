package dispatch

import "errors"

// Status is the terminal state of one label during dispatch.
type Status string

const (
	StatusSent       Status = "sent"
	StatusUnroutable Status = "unroutable"
	StatusRejected   Status = "rejected"
	StatusFailed     Status = "failed"
)

// Outcome records what happened to one routing label.
type Outcome struct {
	Label     string
	Channel   string
	Status    Status
	Timestamp string
	Reason    string
	Err       error
}

// Report collects the outcomes of one dispatch in label order.
type Report struct {
	Outcomes []Outcome
}

// Sent returns the outcomes the messaging service accepted.
func (r Report) Sent() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Status == StatusSent })
}

// Unroutable returns labels with no routing entry.
func (r Report) Unroutable() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Status == StatusUnroutable })
}

// Failed returns deliveries that were rejected or errored.
func (r Report) Failed() []Outcome {
	return r.filter(func(o Outcome) bool {
		return o.Status == StatusRejected || o.Status == StatusFailed
	})
}

// Attempts counts the outcomes that reached the messaging service.
func (r Report) Attempts() int {
	return len(r.Sent()) + len(r.Failed())
}

// Err joins the delivery errors. Nil when every routed label was delivered.
func (r Report) Err() error {
	var errs []error
	for _, outcome := range r.Failed() {
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}
	return errors.Join(errs...)
}

func (r Report) filter(keep func(Outcome) bool) []Outcome {
	var out []Outcome
	for _, outcome := range r.Outcomes {
		if keep(outcome) {
			out = append(out, outcome)
		}
	}
	return out
}
