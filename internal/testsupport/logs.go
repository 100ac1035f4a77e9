package testsupport

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogEntry is one captured log record with its attributes flattened.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// LogRecorder is a slog handler that keeps every record in memory.
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
}

// NewLogRecorder returns a recorder and a logger writing into it at debug level.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	rec := &LogRecorder{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
	return rec, slog.New(rec)
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, record slog.Record) error {
	entry := LogEntry{Level: record.Level, Message: record.Message, Attrs: map[string]string{}}
	for _, attr := range r.attrs {
		entry.Attrs[attr.Key] = attr.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		entry.Attrs[attr.Key] = attr.Value.String()
		return true
	})
	r.mu.Lock()
	*r.entries = append(*r.entries, entry)
	r.mu.Unlock()
	return nil
}

func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *r
	next.attrs = append(append([]slog.Attr(nil), r.attrs...), attrs...)
	return &next
}

// WithGroup is flattened; recorded keys never carry group prefixes.
func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Entries returns a snapshot of the captured records.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), (*r.entries)...)
}

// AtLevel returns the captured records with exactly the given level.
func (r *LogRecorder) AtLevel(level slog.Level) []LogEntry {
	var out []LogEntry
	for _, entry := range r.Entries() {
		if entry.Level == level {
			out = append(out, entry)
		}
	}
	return out
}

// Contains reports whether any record at level has a message containing substr.
func (r *LogRecorder) Contains(level slog.Level, substr string) bool {
	for _, entry := range r.AtLevel(level) {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}
