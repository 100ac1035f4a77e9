package testsupport

import (
	"context"
	"sync"

	"teamnotify/internal/notifications"
)

// SentMessage is one call observed by FakeNotifier.
type SentMessage struct {
	Channel string
	Text    string
}

// FakeNotifier records deliveries. Channels listed in Reject return a not-ok
// delivery with the mapped reason; channels listed in Fail return the mapped
// error. Every other channel is accepted.
type FakeNotifier struct {
	Reject map[string]string
	Fail   map[string]error

	mu   sync.Mutex
	sent []SentMessage
}

func (f *FakeNotifier) Send(_ context.Context, channel, text string) (notifications.Delivery, error) {
	f.mu.Lock()
	f.sent = append(f.sent, SentMessage{Channel: channel, Text: text})
	f.mu.Unlock()

	if err, ok := f.Fail[channel]; ok {
		return notifications.Delivery{}, err
	}
	if reason, ok := f.Reject[channel]; ok {
		return notifications.Delivery{OK: false, Channel: channel, Reason: reason}, nil
	}
	return notifications.Delivery{OK: true, Channel: channel, Timestamp: "1700000000.000100"}, nil
}

// Sent returns every attempted delivery in call order.
func (f *FakeNotifier) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.sent...)
}
