package logger

import (
	"sync"
	"testing"
)

type recorder struct {
	mu      sync.Mutex
	entries []string
	keyvals [][]any
}

func (r *recorder) record(level, message string, keyvals []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, level+" "+message)
	r.keyvals = append(r.keyvals, keyvals)
}

func (r *recorder) Log(m string, kv ...any)   { r.record("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.record("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.record("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.record("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.record("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.record("fatal", m, kv) }

func TestDispatchToEveryBackend(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	defer Init()

	Info("[Catalog] Loaded bases", "areas", 3)
	Log("plain", "k", "v")

	for _, r := range []*recorder{a, b} {
		if len(r.entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(r.entries))
		}
		if r.entries[0] != "info [Catalog] Loaded bases" {
			t.Fatalf("unexpected entry %q", r.entries[0])
		}
		if len(r.keyvals[1]) != 2 {
			t.Fatalf("Log dropped keyvals: %v", r.keyvals[1])
		}
	}
}

func TestCallsBeforeInitAreDropped(t *testing.T) {
	mu.Lock()
	singleton = nil
	mu.Unlock()

	Warn("nobody listens")
}
