// Package scheduler runs periodic maintenance for the import pipeline.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// ErrInvalidConfig is returned when configuration is invalid
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Purger removes finished imports created before the cutoff.
// *importapp.ImportJobService implements it.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionConfig holds configuration for the retention trigger
type RetentionConfig struct {
	// Retention is how long finished imports are kept
	Retention time.Duration

	// CheckInterval is how often expired imports are purged
	CheckInterval time.Duration

	// RunTimeout bounds one purge pass
	RunTimeout time.Duration
}

// DefaultRetentionConfig keeps imports for 90 days and checks hourly
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Retention:     90 * 24 * time.Hour,
		CheckInterval: time.Hour,
		RunTimeout:    5 * time.Minute,
	}
}

// RetentionTrigger purges expired import history on a fixed interval
type RetentionTrigger struct {
	config RetentionConfig
	purger Purger
	clock  clock.WithTicker
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRunAt time.Time
}

// NewRetentionTrigger creates a stopped trigger. A nil clock uses the real one.
func NewRetentionTrigger(config RetentionConfig, purger Purger, c clock.WithTicker, logger *zap.Logger) (*RetentionTrigger, error) {
	if config.Retention <= 0 || config.CheckInterval <= 0 {
		return nil, ErrInvalidConfig
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultRetentionConfig().RunTimeout
	}
	if c == nil {
		c = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionTrigger{
		config: config,
		purger: purger,
		clock:  c,
		logger: logger.Named("retention"),
	}, nil
}

// Start runs one purge immediately and then once per CheckInterval
func (r *RetentionTrigger) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return
	}
	r.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	ticker := r.clock.NewTicker(r.config.CheckInterval)

	r.wg.Add(1)
	go r.runLoop(ctx, ticker)

	r.logger.Info("Retention trigger started",
		zap.Duration("retention", r.config.Retention),
		zap.Duration("check_interval", r.config.CheckInterval),
	)
}

// Stop stops the trigger and waits for a running purge
func (r *RetentionTrigger) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	cancel := r.cancel
	r.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Retention trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastRunAt returns when the last purge finished, zero before the first
func (r *RetentionTrigger) LastRunAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRunAt
}

func (r *RetentionTrigger) runLoop(ctx context.Context, ticker clock.Ticker) {
	defer r.wg.Done()
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			r.RunOnce(ctx)
		}
	}
}

// RunOnce purges imports older than the retention period
func (r *RetentionTrigger) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.RunTimeout)
	defer cancel()

	now := r.clock.Now()
	purged, err := r.purger.Purge(ctx, now.Add(-r.config.Retention))
	if err != nil && ctx.Err() == nil {
		r.logger.Error("Import retention purge failed", zap.Int("purged", purged), zap.Error(err))
	}

	r.mu.Lock()
	r.lastRunAt = r.clock.Now()
	r.mu.Unlock()
}
