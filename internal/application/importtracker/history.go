package importtracker

import (
	"context"
	"fmt"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"go.uber.org/zap"
)

// RefreshHistory replaces the history snapshot with the server's newest
// entries. Every call sends its own request under ctx; when refreshes
// overlap, a response older than the one already applied is dropped.
func (t *Tracker) RefreshHistory(ctx context.Context) error {
	t.mu.Lock()
	t.historySeq++
	seq := t.historySeq
	t.historyInflight++
	t.loading = true
	t.mu.Unlock()
	t.notify()

	page, err := t.api.History(ctx, t.cfg.HistoryLimit)

	t.mu.Lock()
	t.historyInflight--
	t.loading = t.historyInflight > 0
	stale := seq < t.historyApplied
	if err == nil && !stale {
		t.history = append([]bulk.ImportHistoryEntry(nil), page.Imports...)
		t.historyLoaded = true
		t.historyApplied = seq
	}
	t.mu.Unlock()
	t.notify()

	if err != nil {
		t.logger.Warn("Failed to load import history", zap.Uint64("seq", seq), zap.Error(err))
		return fmt.Errorf("failed to load import history: %w", err)
	}
	if stale {
		t.logger.Debug("Discarding stale history response", zap.Uint64("seq", seq))
	}
	return nil
}

// DeleteHistory removes one entry on the server and reloads the snapshot
func (t *Tracker) DeleteHistory(ctx context.Context, importID string) error {
	if err := t.api.DeleteHistory(ctx, importID); err != nil {
		return fmt.Errorf("failed to delete import %s: %w", importID, err)
	}
	return t.RefreshHistory(ctx)
}

// History returns a copy of the last snapshot, newest first
func (t *Tracker) History() []HistoryRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return historyRows(t.history, t.cfg.Language)
}

// Loading reports whether a refresh is in flight
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// HistoryEmpty reports whether the last successful refresh returned nothing
func (t *Tracker) HistoryEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.historyLoaded && len(t.history) == 0
}
