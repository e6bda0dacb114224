package comm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

type slogHandler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*slogHandler)(nil)

// NewSlogHandler returns a slog.Handler that emits logs through comm.
// A nil level follows the --verbose setting.
func NewSlogHandler(level slog.Leveler) slog.Handler {
	return &slogHandler{
		level: level,
	}
}

// NewLogger is a shorthand for slog.New(NewSlogHandler(level))
func NewLogger(level slog.Leveler) *slog.Logger {
	return slog.New(NewSlogHandler(level))
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		if settings.verbose {
			return level >= slog.LevelDebug
		}
		return level >= slog.LevelInfo
	}
	return level >= h.level.Level()
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := JsonMessage{}
	for _, attr := range h.attrs {
		addAttr(fields, h.groups, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addAttr(fields, h.groups, attr)
		return true
	})

	level := slogLevelToCommLevel(r.Level)

	if JsonEnabled() {
		// a logger enabled at debug level emits debug records even
		// without --verbose
		obj := JsonMessage{
			"type":    "log",
			"time":    time.Now().UTC().Unix(),
			"level":   level,
			"message": r.Message,
		}
		for k, v := range fields {
			obj[k] = v
		}
		sendJSON(obj)
		return nil
	}

	Logl(level, formatFields(r.Message, fields))
	return nil
}

// formatFields renders attributes as sorted key=value pairs after msg
func formatFields(msg string, fields JsonMessage) string {
	if len(fields) == 0 {
		return msg
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	return sb.String()
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := &slogHandler{
		level:  h.level,
		groups: append([]string{}, h.groups...),
		attrs:  append([]slog.Attr{}, h.attrs...),
	}
	nh.attrs = append(nh.attrs, attrs...)
	return nh
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	nh := &slogHandler{
		level:  h.level,
		groups: append([]string{}, h.groups...),
		attrs:  append([]slog.Attr{}, h.attrs...),
	}
	nh.groups = append(nh.groups, name)
	return nh
}

func addAttr(obj JsonMessage, groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		nextGroups := append([]string{}, groups...)
		if attr.Key != "" {
			nextGroups = append(nextGroups, attr.Key)
		}
		for _, groupAttr := range attr.Value.Group() {
			addAttr(obj, nextGroups, groupAttr)
		}
		return
	}

	if attr.Key == "" {
		return
	}

	keyParts := append(append([]string{}, groups...), attr.Key)
	key := strings.Join(keyParts, ".")
	obj[key] = attr.Value.Any()
}

func slogLevelToCommLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
