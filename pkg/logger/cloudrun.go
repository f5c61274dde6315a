package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CloudRunHandler writes one JSON object per record in the shape Cloud Logging
// expects: severity, message, time and a data object holding the attributes.
type CloudRunHandler struct {
	level  slog.Level
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func NewCloudRunHandler(level slog.Level) slog.Handler {
	return NewCloudRunHandlerWriter(os.Stdout, level)
}

func NewCloudRunHandlerWriter(w io.Writer, level slog.Level) *CloudRunHandler {
	return &CloudRunHandler{level: level, out: w, mu: &sync.Mutex{}}
}

func (h *CloudRunHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *CloudRunHandler) Handle(_ context.Context, r slog.Record) error {
	event := map[string]any{
		"severity": mapSeverity(r.Level),
		"message":  r.Message,
		"time":     r.Time.Format(time.RFC3339Nano),
	}

	data := make(map[string]any)
	for _, a := range h.attrs {
		addAttr(data, a)
	}
	target := data
	for _, g := range h.groups {
		target = subMap(target, g)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(target, a)
		return true
	})
	if len(data) > 0 {
		event["data"] = data
	}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(b, '\n'))
	return err
}

func (h *CloudRunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	if len(h.groups) == 0 {
		next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
		return &next
	}
	// attrs added after a group belong inside it, and so do later record attrs
	next.attrs = append(append([]slog.Attr{}, h.attrs...), nestInGroups(h.groups, attrs))
	return &next
}

func (h *CloudRunHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// ---- Helpers ----

func mapSeverity(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func addAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}
	switch v.Kind() {
	case slog.KindGroup:
		if len(v.Group()) == 0 {
			return
		}
		sub := dst
		if a.Key != "" {
			sub = subMap(dst, a.Key)
		}
		for _, ga := range v.Group() {
			addAttr(sub, ga)
		}
	case slog.KindAny:
		switch val := v.Any().(type) {
		case error:
			dst[a.Key] = val.Error()
		case decimal.Decimal:
			dst[a.Key] = val.String()
		default:
			dst[a.Key] = val
		}
	default:
		dst[a.Key] = v.Any()
	}
}

// subMap returns dst[key] as a map, creating it when missing so repeated
// groups of the same name merge.
func subMap(dst map[string]any, key string) map[string]any {
	if sub, ok := dst[key].(map[string]any); ok {
		return sub
	}
	sub := make(map[string]any)
	dst[key] = sub
	return sub
}

func nestInGroups(groups []string, attrs []slog.Attr) slog.Attr {
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	nested := slog.Group(groups[len(groups)-1], args...)
	for i := len(groups) - 2; i >= 0; i-- {
		nested = slog.Group(groups[i], nested)
	}
	return nested
}
