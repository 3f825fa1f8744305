package catalog

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unl-extension/metas/backend/internal/metrics"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/store"
)

// DefaultTTL is how long a loaded catalog is served before the next Get
// reloads it.
const DefaultTTL = 5 * time.Minute

// Source fetches the reference catalog.
type Source interface {
	GetBases(ctx context.Context) (*metas.Bases, error)
}

// Options configures a Service.
type Options struct {
	TTL   time.Duration
	Store store.CatalogStore
	Now   func() time.Time
}

// Service is the single catalog cache of a process. It loads at most once per
// TTL, collapses concurrent loads into one request and keeps the previous
// snapshot when a load fails.
type Service struct {
	source Source
	store  store.CatalogStore
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	current *Snapshot
	stale   bool
	// epoch counts invalidations. A load only clears stale when no
	// invalidation happened while it was running.
	epoch         uint64
	invalidatedAt time.Time

	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func(*Snapshot)
	nextSub int
}

func NewService(source Source, opts Options) *Service {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:  source,
		store:   opts.Store,
		ttl:     ttl,
		now:     now,
		current: emptySnapshot,
		subs:    make(map[int]func(*Snapshot)),
	}
}

// Current returns the latest snapshot without triggering a load. It is the
// empty snapshot until the first successful load.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.stale && !s.current.Empty() && s.now().Sub(s.current.LoadedAt) < s.ttl
}

// Get returns a snapshot no older than the TTL, loading one if needed. When
// the load fails the previous snapshot is returned together with the error.
func (s *Service) Get(ctx context.Context) (*Snapshot, error) {
	if s.fresh() {
		return s.Current(), nil
	}
	return s.load(ctx)
}

// Refresh loads the catalog regardless of its age. It never joins a load
// that started before the call.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.Invalidate()
	return s.load(ctx)
}

// Invalidate makes the next Get reload the catalog. A load already in flight
// still replaces the snapshot but leaves it marked stale.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.epoch++
	s.invalidatedAt = s.now()
	s.mu.Unlock()
}

func (s *Service) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Warm replaces the current snapshot with the stored catalog when the stored
// one is newer. It returns store.ErrNotFound when nothing is stored.
func (s *Service) Warm(ctx context.Context) error {
	if s.store == nil {
		return store.ErrNotFound
	}
	epoch := s.currentEpoch()
	bases, loadedAt, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	if !loadedAt.After(s.Current().LoadedAt) {
		return nil
	}
	snap := NewSnapshot(bases, loadedAt)
	if !s.set(snap, epoch, loadedAt) {
		return nil
	}
	logger.Info("[Catalog] Loaded stored catalog", "entries", snap.SummaryIndex.Len(), "loaded_at", loadedAt)
	return nil
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function removes the subscription.
func (s *Service) Subscribe(fn func(*Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	// The shared load outlives any single caller so that one caller going
	// away does not fail the others; each caller stops waiting on its own ctx.
	// Loads are keyed by epoch so a caller never joins a load that started
	// before the last invalidation.
	epoch := s.currentEpoch()
	ch := s.group.DoChan("bases:"+strconv.FormatUint(epoch, 10), func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), epoch)
	})

	select {
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return s.Current(), res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Service) fetch(ctx context.Context, epoch uint64) (*Snapshot, error) {
	started := s.now()
	bases, err := s.source.GetBases(ctx)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues(loadStatus(err)).Inc()
		logger.Error("[Catalog] Failed to load bases", "err", err)
		return nil, err
	}
	metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()

	// The snapshot holds the data as of the request start.
	snap := NewSnapshot(bases, started)
	if !s.set(snap, epoch, started) {
		logger.Debug("[Catalog] Discarded bases, a newer catalog arrived during the load")
		return s.Current(), nil
	}
	logger.Debug("[Catalog] Loaded bases", "areas", len(bases.Areas), "programs", len(bases.ExtensionPrograms))

	if s.store != nil {
		if err := s.store.SaveCatalog(ctx, bases, snap.LoadedAt); err != nil {
			logger.Warn("[Catalog] Failed to persist catalog", "err", err)
		}
	}

	return snap, nil
}

func loadStatus(err error) string {
	if errors.Is(err, metas.ErrNotOK) {
		return "not_ok"
	}
	return "error"
}

// set installs snap, holding data as of since, unless the current snapshot
// was loaded after since. stale is only cleared when no invalidation happened
// after epoch was read or after since.
func (s *Service) set(snap *Snapshot, epoch uint64, since time.Time) bool {
	s.mu.Lock()
	if s.current.LoadedAt.After(since) {
		s.mu.Unlock()
		return false
	}
	s.current = snap
	if epoch == s.epoch && !since.Before(s.invalidatedAt) {
		s.stale = false
	}
	s.mu.Unlock()

	metrics.CatalogEntries.Set(float64(snap.SummaryIndex.Len()))

	s.subMu.Lock()
	subs := make([]func(*Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}
