package importtracker

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// PollState is the lifecycle of the status poller
type PollState int

const (
	PollIdle PollState = iota
	PollPolling
	PollStopped
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollPolling:
		return "polling"
	case PollStopped:
		return "stopped"
	}
	return "unknown"
}

// pollSession owns the ticker and context of one tracked job. It is
// acquired by Upload and released on a terminal status, Dismiss or Close.
type pollSession struct {
	id     uint64
	jobID  string
	ctx    context.Context
	cancel context.CancelFunc
	ticker clock.Ticker

	// latest is the sequence number of the last status request issued
	// for this session; guarded by Tracker.mu
	latest uint64

	once sync.Once
}

func (s *pollSession) stop() {
	s.once.Do(func() {
		s.cancel()
		s.ticker.Stop()
	})
}

// startLocked replaces the current session with a fresh one for jobID
func (t *Tracker) startLocked(jobID string) {
	t.releaseLocked(t.session)

	t.sessions++
	ctx, cancel := context.WithCancel(context.Background())
	s := &pollSession{
		id:     t.sessions,
		jobID:  jobID,
		ctx:    ctx,
		cancel: cancel,
		ticker: t.cfg.Clock.NewTicker(t.cfg.PollInterval),
	}
	t.session = s
	t.state = PollPolling

	go t.poll(s)
}

func (t *Tracker) releaseLocked(s *pollSession) {
	if s == nil {
		return
	}
	s.stop()
	if t.session == s {
		t.session = nil
	}
}

func (t *Tracker) poll(s *pollSession) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.ticker.C():
			// a released session may still see a buffered tick
			if s.ctx.Err() != nil {
				return
			}
			if !t.pollOnce(s) {
				return
			}
		}
	}
}

// pollOnce fetches the job status once and reports whether polling goes on
func (t *Tracker) pollOnce(s *pollSession) bool {
	t.mu.Lock()
	if t.session != s {
		t.mu.Unlock()
		return false
	}
	t.seq++
	seq := t.seq
	s.latest = seq
	t.mu.Unlock()

	status, err := t.api.Status(s.ctx, s.jobID)
	if err != nil {
		if s.ctx.Err() != nil {
			return false
		}
		t.logger.Warn("Import status poll failed",
			zap.String("import_id", s.jobID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return true
	}

	t.mu.Lock()
	if t.session != s || s.latest != seq {
		t.mu.Unlock()
		t.logger.Debug("Discarding stale status response",
			zap.String("import_id", s.jobID),
			zap.Uint64("seq", seq),
		)
		return t.session == s
	}
	// the response replaces the tracked job wholesale
	t.job = status
	terminal := status.Status.IsTerminal()
	if terminal {
		t.releaseLocked(s)
		t.state = PollStopped
	}
	t.mu.Unlock()
	t.notify()

	if terminal {
		t.logger.Info("Import finished",
			zap.String("import_id", s.jobID),
			zap.String("status", status.Status.String()),
		)
		_ = t.RefreshHistory(context.WithoutCancel(s.ctx))
		return false
	}
	return true
}
