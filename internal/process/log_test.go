package process

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// recordHandler keeps every record it handles.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler { return h }

// find returns the attributes of the first record with the given message.
func (h *recordHandler) find(msg string) (map[string]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		attrs := make(map[string]string)
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.String()
			return true
		})
		return attrs, true
	}
	return nil, false
}

// TestSetLogger is not parallel: it swaps the package logger.
func TestSetLogger(t *testing.T) {
	h := &recordHandler{}
	custom := slog.New(h)

	SetLogger(custom)
	t.Cleanup(func() { SetLogger(nil) })

	if Logger() != custom {
		t.Fatal("Logger() did not return the installed logger")
	}

	SetLogger(nil)
	if Logger() == custom {
		t.Error("SetLogger(nil) should restore the default")
	}
	if Logger() == nil {
		t.Error("Logger() must never return nil")
	}
}
