// internal/pkg/logger/handlers.go
package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

// contextHandler copies request and task values stored on the context
// into every record
type contextHandler struct {
	next slog.Handler
	keys []ContextKey
}

func newContextHandler(next slog.Handler) *contextHandler {
	return &contextHandler{next: next, keys: defaultContextKeys()}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := contextAttrs(ctx, h.keys); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), keys: h.keys}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), keys: h.keys}
}

// samplingHandler keeps a fraction of debug and info records. Warnings and
// errors always pass.
type samplingHandler struct {
	next slog.Handler
	rate float64
}

func newSamplingHandler(next slog.Handler, rate float64) *samplingHandler {
	return &samplingHandler{next: next, rate: rate}
}

func (h *samplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if !h.next.Enabled(ctx, level) {
		return false
	}
	return level >= slog.LevelWarn || rand.Float64() < h.rate
}

func (h *samplingHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < slog.LevelWarn {
		record.AddAttrs(slog.Float64("sample_rate", h.rate))
	}
	return h.next.Handle(ctx, record)
}

func (h *samplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &samplingHandler{next: h.next.WithAttrs(attrs), rate: h.rate}
}

func (h *samplingHandler) WithGroup(name string) slog.Handler {
	return &samplingHandler{next: h.next.WithGroup(name), rate: h.rate}
}

const redacted = "***REDACTED***"

var (
	// key=value, key: value and "key":"value" pairs whose value must not be logged
	credentialPattern = regexp.MustCompile(`(?i)(password|pwd|secret|token|jwt|api[-_]?key)("?\s*[:=]\s*)["']?[^"'\s&,}]+`)
	bearerPattern     = regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9\-._~+/]+=*`)

	sensitiveKeys = []string{
		"password", "pwd", "secret", "token", "authorization",
		"cookie", "jwt", "api_key",
	}
)

// redactHandler masks backend bearer tokens, login passwords and session
// cookies in messages and attributes, including nested groups
type redactHandler struct {
	next slog.Handler
}

func newRedactHandler(next slog.Handler) *redactHandler {
	return &redactHandler{next: next}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, redactString(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &redactHandler{next: h.next.WithAttrs(clean)}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		clean := make([]any, len(group))
		for i, ga := range group {
			clean[i] = redactAttr(ga)
		}
		return slog.Group(a.Key, clean...)
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func redactString(s string) string {
	s = credentialPattern.ReplaceAllString(s, "${1}${2}"+redacted)
	return bearerPattern.ReplaceAllString(s, "${1} "+redacted)
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[37m",
	slog.LevelInfo:  "\033[34m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

const (
	colorReset = "\033[0m"
	colorKey   = "\033[36m"
)

// consoleHandler writes one colored line per record for local development
type consoleHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	level := r.Level.String()
	color, ok := levelColors[r.Level]
	if !ok {
		color = colorReset
	}
	fmt.Fprintf(&buf, "%s%s %-5s%s %s", color, r.Time.Format("2006-01-02 15:04:05.000"), level, colorReset, r.Message)
	buf.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s%s%s=%v%s", colorKey, prefix, a.Key, v.Any(), colorReset)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer
	for _, a := range attrs {
		h.writeAttr(&buf, h.prefix, a)
	}
	clone := *h
	clone.attrs = h.attrs + buf.String()
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
