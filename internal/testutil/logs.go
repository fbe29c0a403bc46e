// Package testutil provides common test utilities for discovery tests:
// a recording slog handler and a generator for minimal wasm modules.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogRecorder is an slog.Handler that keeps every record it receives.
type LogRecorder struct {
	store *recordStore
	attrs []slog.Attr
}

type recordStore struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogRecorder returns a recorder and a logger writing to it.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	r := &LogRecorder{store: &recordStore{}}
	return r, slog.New(r)
}

// Enabled accepts every level.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle stores a copy of the record.
func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	rec = rec.Clone()
	rec.AddAttrs(r.attrs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.records = append(r.store.records, rec)
	return nil
}

// WithAttrs returns a recorder sharing the same store.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &LogRecorder{store: r.store, attrs: append(append([]slog.Attr{}, r.attrs...), attrs...)}
	return next
}

// WithGroup returns a recorder sharing the same store. Groups are flattened.
func (r *LogRecorder) WithGroup(string) slog.Handler {
	return &LogRecorder{store: r.store, attrs: r.attrs}
}

// Records returns a copy of all records.
func (r *LogRecorder) Records() []slog.Record {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]slog.Record, len(r.store.records))
	copy(out, r.store.records)
	return out
}

// Count returns the number of records at exactly level.
func (r *LogRecorder) Count(level slog.Level) int {
	n := 0
	for _, rec := range r.Records() {
		if rec.Level == level {
			n++
		}
	}
	return n
}

// Messages returns the messages of records at exactly level.
func (r *LogRecorder) Messages(level slog.Level) []string {
	var out []string
	for _, rec := range r.Records() {
		if rec.Level == level {
			out = append(out, rec.Message)
		}
	}
	return out
}

// Attr returns the first attribute named key on rec.
func Attr(rec slog.Record, key string) (slog.Value, bool) {
	var (
		val   slog.Value
		found bool
	)
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			val, found = a.Value, true
			return false
		}
		return true
	})
	return val, found
}
