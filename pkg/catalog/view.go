package catalog

import (
	"context"
	"sync"

	"github.com/unl-extension/metas/backend/pkg/relation"
)

// ViewOption configures a View.
type ViewOption func(*View)

// WithErrorHandler makes the view report load failures to fn, for example to
// show an alert. Without it failures are only logged by the Service.
func WithErrorHandler(fn func(error)) ViewOption {
	return func(v *View) {
		v.onError = fn
	}
}

// View is the catalog state of one consumer between Mount and Unmount. Each
// mount issues a single load. Results that arrive after Unmount, or that
// belong to an earlier mount, are discarded.
type View struct {
	svc     *Service
	onError func(error)

	mu          sync.Mutex
	snapshot    *Snapshot
	generation  uint64
	mounted     bool
	cancel      context.CancelFunc
	unsubscribe func()
	ready       chan struct{}
}

// NewView creates an unmounted view backed by s.
func (s *Service) NewView(opts ...ViewOption) *View {
	v := &View{
		svc:      s,
		snapshot: emptySnapshot,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount starts loading the catalog in the background and follows later
// catalog changes until Unmount. Mounting an already mounted view is a no-op.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return
	}
	v.generation++
	gen := v.generation
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mounted = true
	ready := make(chan struct{})
	v.ready = ready
	v.unsubscribe = v.svc.Subscribe(func(s *Snapshot) {
		v.apply(gen, s)
	})
	v.mu.Unlock()

	go func() {
		defer close(ready)
		snap, err := v.svc.Get(ctx)
		if err != nil && ctx.Err() == nil && v.onError != nil && v.isCurrent(gen) {
			v.onError(err)
		}
		// A failed load still hands back the previous snapshot, if any.
		if !snap.Empty() {
			v.apply(gen, snap)
		}
	}()
}

// Unmount cancels the pending load and stops following catalog changes.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.mounted = false
	v.cancel()
	v.unsubscribe()
}

// Wait blocks until the load started by the last Mount has finished, whether
// it succeeded or not, or until ctx is done. The error handler, if any, has
// run by the time Wait returns nil.
func (v *View) Wait(ctx context.Context) error {
	v.mu.Lock()
	ready := v.ready
	v.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the catalog currently held by the view. It is empty until
// a load succeeds.
func (v *View) Snapshot() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Render resolves lists against the view's areas index. Before the first load
// every group misses, so the result is empty.
func (v *View) Render(defs []relation.Category, lists map[int][]int) []relation.Group {
	return relation.RenderGroups(defs, lists, v.Snapshot().Index)
}

func (v *View) isCurrent(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted && v.generation == gen
}

func (v *View) apply(gen uint64, s *Snapshot) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.generation != gen {
		return false
	}
	v.snapshot = s
	return true
}
