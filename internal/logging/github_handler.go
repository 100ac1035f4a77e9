package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// githubHandler writes GitHub Actions workflow commands. Info records are plain
// lines; debug, warning, and error records become ::debug::, ::warning::, and
// ::error:: commands so the runner turns them into annotations.
type githubHandler struct {
	state handlerState
}

func newGitHubHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &githubHandler{state: handlerState{mu: &sync.Mutex{}, writer: w, level: lvl}}
}

func (h *githubHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.state.level.Level()
}

func (h *githubHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.state.level.Level() {
		return nil
	}

	component, kvs := h.state.collect(record)

	var line bytes.Buffer
	if component != "" {
		line.WriteString(component)
		line.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}
	writeKVs(&line, kvs)

	var buf bytes.Buffer
	if command := workflowCommand(record.Level); command != "" {
		buf.WriteString("::")
		buf.WriteString(command)
		buf.WriteString("::")
		buf.WriteString(escapeCommandData(line.String()))
	} else {
		buf.Write(line.Bytes())
	}
	buf.WriteByte('\n')
	return h.state.write(&buf)
}

func (h *githubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &githubHandler{state: h.state.clone()}
	clone.state.attrs = append(clone.state.attrs, attrs...)
	return clone
}

func (h *githubHandler) WithGroup(name string) slog.Handler {
	clone := &githubHandler{state: h.state.clone()}
	clone.state.groups = append(clone.state.groups, name)
	return clone
}

func workflowCommand(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return ""
	default:
		return "debug"
	}
}

// escapeCommandData applies the runner's escaping rules for command payloads.
func escapeCommandData(value string) string {
	value = strings.ReplaceAll(value, "%", "%25")
	value = strings.ReplaceAll(value, "\r", "%0D")
	return strings.ReplaceAll(value, "\n", "%0A")
}

// FormatWorkflowError renders msg as an ::error:: workflow command line.
func FormatWorkflowError(msg string) string {
	return "::error::" + escapeCommandData(msg)
}
