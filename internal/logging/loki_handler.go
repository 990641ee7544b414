// Package logging provides slog handlers used by the server in addition to the
// console handler, currently a batched Grafana Loki push handler.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	pushPath      = "/loki/api/v1/push"
	flushInterval = 5 * time.Second
)

// LokiHandler is a custom slog.Handler that sends logs directly to Loki via HTTP.
// It batches logs and sends them asynchronously to avoid blocking the application.
// Handlers derived with WithAttrs or WithGroup share the batch of their parent.
type LokiHandler struct {
	sink   *lokiSink
	attrs  []scopedAttr
	groups []string
}

// scopedAttr is an attribute bound with WithAttrs under the groups open at the time.
type scopedAttr struct {
	groups []string
	attr   slog.Attr
}

// lokiSink owns the batch and the HTTP client shared by derived handlers.
type lokiSink struct {
	url        string
	labels     map[string]string
	client     *http.Client
	batch      []lokiEntry
	batchMu    sync.Mutex
	batchSize  int
	flushTimer *time.Timer
	enabled    bool
	level      slog.Leveler
	errOut     io.Writer
}

type lokiEntry struct {
	timestamp time.Time
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiHandler creates a new handler that sends logs to Loki.
// url: Loki endpoint (e.g., "http://localhost:3100")
// labels: Static labels to attach to all logs (e.g., {"app": "evaluation"})
// batchSize: Number of logs to batch before sending (0 = send immediately)
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Leveler) *LokiHandler {
	if labels == nil {
		labels = make(map[string]string)
	}
	if level == nil {
		level = slog.LevelInfo
	}

	s := &lokiSink{
		url:       url + pushPath,
		labels:    labels,
		client:    &http.Client{Timeout: 5 * time.Second},
		batch:     make([]lokiEntry, 0, batchSize),
		batchSize: batchSize,
		enabled:   enabled,
		level:     level,
		errOut:    os.Stderr,
	}

	if batchSize > 0 && enabled {
		s.flushTimer = time.AfterFunc(flushInterval, s.periodicFlush)
	}

	return &LokiHandler{sink: s}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.sink.enabled && level >= h.sink.level.Level()
}

// Handle encodes the record as one JSON line and queues it.
func (h *LokiHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.sink.enabled {
		return nil
	}

	logData := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, sa := range h.attrs {
		addAttr(groupMap(logData, sa.groups), sa.attr)
	}
	target := groupMap(logData, h.groups)
	r.Attrs(func(a slog.Attr) bool {
		addAttr(target, a)
		return true
	})

	logJSON, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return h.sink.enqueue(ctx, lokiEntry{timestamp: ts, line: string(logJSON)})
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, scopedAttr{groups: h.groups, attr: a})
	}
	return clone
}

// WithGroup returns a handler that nests later attributes under name.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// Close flushes any remaining logs and stops the periodic flush timer
func (h *LokiHandler) Close() error {
	return h.sink.close()
}

func (h *LokiHandler) clone() *LokiHandler {
	return &LokiHandler{
		sink:   h.sink,
		attrs:  append([]scopedAttr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// groupMap returns the nested map addressed by groups, creating it as needed.
func groupMap(root map[string]any, groups []string) map[string]any {
	m := root
	for _, g := range groups {
		child, ok := m[g].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[g] = child
		}
		m = child
	}
	return m
}

func addAttr(m map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		target := m
		if a.Key != "" {
			child, ok := m[a.Key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[a.Key] = child
			}
			target = child
		}
		for _, ga := range attrs {
			addAttr(target, ga)
		}
		return
	}
	m[a.Key] = attrValue(a.Value)
}

// attrValue keeps JSON-friendly values and renders the rest as text.
func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		}
	}
	return v.Any()
}

func (s *lokiSink) enqueue(ctx context.Context, e lokiEntry) error {
	s.batchMu.Lock()
	s.batch = append(s.batch, e)
	shouldFlush := s.batchSize <= 0 || len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if shouldFlush {
		return s.flush(ctx)
	}
	return nil
}

// flush sends all batched logs to Loki
func (s *lokiSink) flush(ctx context.Context) error {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return nil
	}

	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	// Loki expects [timestamp_in_nanoseconds, log_line]
	values := make([][]string, len(entries))
	for i, entry := range entries {
		values[i] = []string{
			strconv.FormatInt(entry.timestamp.UnixNano(), 10),
			entry.line,
		}
	}

	return s.send(ctx, lokiPushRequest{
		Streams: []lokiStream{{Stream: s.labels, Values: values}},
	})
}

// send pushes to Loki; delivery failures go to errOut and never reach the caller.
func (s *lokiSink) send(ctx context.Context, req lokiPushRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	// The record's context may be cancelled as soon as the request ends.
	httpReq, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, s.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		fmt.Fprintf(s.errOut, "loki: push failed: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		fmt.Fprintf(s.errOut, "loki: push rejected %d: %s\n", resp.StatusCode, body)
	}
	return nil
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush(context.Background())
	if s.flushTimer != nil {
		s.flushTimer.Reset(flushInterval)
	}
}

func (s *lokiSink) close() error {
	if s.flushTimer != nil {
		s.flushTimer.Stop()
	}
	return s.flush(context.Background())
}
