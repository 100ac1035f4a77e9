package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// handlerState carries the attributes and groups shared by the text handlers.
type handlerState struct {
	mu     *sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
}

func (s handlerState) clone() handlerState {
	clone := handlerState{mu: s.mu, writer: s.writer, level: s.level}
	if len(s.attrs) > 0 {
		clone.attrs = append([]slog.Attr(nil), s.attrs...)
	}
	if len(s.groups) > 0 {
		clone.groups = append([]string(nil), s.groups...)
	}
	return clone
}

// collect flattens handler and record attributes, pulling out the component.
func (s handlerState) collect(record slog.Record) (string, []kv) {
	kvs := make([]kv, 0, record.NumAttrs()+len(s.attrs))
	flattenAttrs(&kvs, s.groups, s.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, s.groups, attr)
		return true
	})

	var component string
	filtered := kvs[:0]
	for _, item := range kvs {
		if item.key == FieldComponent {
			if component == "" {
				component = attrString(item.value)
			}
			continue
		}
		filtered = append(filtered, item)
	}
	return component, filtered
}

func (s handlerState) write(buf *bytes.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.writer.Write(buf.Bytes())
	return err
}

type consoleHandler struct {
	state     handlerState
	addSource bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{
		state:     handlerState{mu: &sync.Mutex{}, writer: w, level: lvl},
		addSource: addSource,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.state.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.state.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	component, kvs := h.state.collect(record)

	var buf bytes.Buffer
	buf.Grow(128 + len(kvs)*24)

	buf.WriteString(timestamp.UTC().Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	buf.WriteByte(' ')

	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}

	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}

	if h.addSource {
		if src := record.Source(); src != nil {
			buf.WriteString(" [")
			buf.WriteString(filepath.Base(src.File))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(src.Line))
			buf.WriteByte(']')
		}
	}

	writeKVs(&buf, kvs)
	buf.WriteByte('\n')
	return h.state.write(&buf)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &consoleHandler{state: h.state.clone(), addSource: h.addSource}
	clone.state.attrs = append(clone.state.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := &consoleHandler{state: h.state.clone(), addSource: h.addSource}
	clone.state.groups = append(clone.state.groups, name)
	return clone
}

func writeKVs(buf *bytes.Buffer, kvs []kv) {
	for _, item := range kvs {
		if item.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(item.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(item.value))
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
