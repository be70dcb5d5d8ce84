package progress

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"k8s.io/utils/clock"
)

const defaultCleanupInterval = 5 * time.Minute

type entry struct {
	job       *bulk.ImportJob
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore implements bulk.ProgressStore in process memory. Suitable for
// a single server instance; a background loop drops expired entries.
type MemoryStore struct {
	clock     clock.WithTicker
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	clock           clock.WithTicker
	cleanupInterval time.Duration
}

// WithClock replaces the wall clock (tests use a fake clock)
func WithClock(c clock.WithTicker) MemoryOption {
	return func(o *memoryOptions) { o.clock = c }
}

// WithCleanupInterval sets how often expired entries are swept
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.cleanupInterval = d }
}

// NewMemoryStore creates the store and starts its cleanup loop
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := memoryOptions{clock: clock.RealClock{}, cleanupInterval: defaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryStore{
		clock:    o.clock,
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	ticker := s.clock.NewTicker(o.cleanupInterval)
	s.wg.Add(1)
	go s.cleanupLoop(ticker)

	return s
}

// Put stores a copy of job
func (s *MemoryStore) Put(_ context.Context, job *bulk.ImportJob, ttl time.Duration) error {
	e := entry{job: job.Clone()}
	if ttl > 0 {
		e.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[job.ID] = e
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored job
func (s *MemoryStore) Get(_ context.Context, id string) (*bulk.ImportJob, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || e.expired(s.clock.Now()) {
		return nil, shared.ErrNotFound
	}
	return e.job.Clone(), nil
}

// Delete removes a job; deleting an unknown id is not an error
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Size returns the number of entries, expired ones included until swept
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup loop. Safe to call multiple times.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryStore) cleanupLoop(ticker clock.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C():
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}

var _ bulk.ProgressStore = (*MemoryStore)(nil)
