package importtracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"go.uber.org/zap"
)

// Bot panel defaults
const (
	DefaultBotPollInterval = 30 * time.Second
	DefaultBotHistoryLimit = 50
)

// BotAPI is the bot panel part of the API. *importclient.Client implements it.
type BotAPI interface {
	BotStatus(ctx context.Context) (*bulk.BotStatus, error)
	BotHistory(ctx context.Context, limit int) (*bulk.HistoryPage, error)
	DeleteBotHistory(ctx context.Context, importID string) error
}

// BotPanel keeps the bot status fresh on a fixed period and holds the
// bot import history.
type BotPanel struct {
	api    BotAPI
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	status   *bulk.BotStatus
	history  []bulk.ImportHistoryEntry
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func()
}

// NewBotPanel creates a stopped panel
func NewBotPanel(api BotAPI, cfg Config) *BotPanel {
	cfg = cfg.withDefaults(DefaultBotPollInterval, DefaultBotHistoryLimit)
	return &BotPanel{
		api:    api,
		cfg:    cfg,
		logger: cfg.Logger.Named("botpanel"),
	}
}

// OnChange sets the callback run after the status or history changes
func (p *BotPanel) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// Start loads the status now and then once per poll interval until Stop.
// Starting a running panel is a no-op.
func (p *BotPanel) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := p.cfg.Clock.NewTicker(p.cfg.PollInterval)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	go func() {
		defer close(done)
		defer ticker.Stop()
		_ = p.RefreshStatus(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if ctx.Err() != nil {
					return
				}
				_ = p.RefreshStatus(ctx)
			}
		}
	}()
}

// Stop ends periodic refreshes and waits for the loop to exit
func (p *BotPanel) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// RefreshStatus fetches the bot status once
func (p *BotPanel) RefreshStatus(ctx context.Context) error {
	status, err := p.api.BotStatus(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("Failed to load bot status", zap.Error(err))
		}
		return fmt.Errorf("failed to load bot status: %w", err)
	}

	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
	p.changed()
	return nil
}

// LoadHistory replaces the bot history snapshot
func (p *BotPanel) LoadHistory(ctx context.Context) error {
	page, err := p.api.BotHistory(ctx, p.cfg.HistoryLimit)
	if err != nil {
		p.logger.Warn("Failed to load bot import history", zap.Error(err))
		return fmt.Errorf("failed to load bot import history: %w", err)
	}

	p.mu.Lock()
	p.history = append([]bulk.ImportHistoryEntry(nil), page.Imports...)
	p.mu.Unlock()
	p.changed()
	return nil
}

// DeleteHistory removes one entry and reloads both history and status
func (p *BotPanel) DeleteHistory(ctx context.Context, importID string) error {
	if err := p.api.DeleteBotHistory(ctx, importID); err != nil {
		return fmt.Errorf("failed to delete import %s: %w", importID, err)
	}
	if err := p.LoadHistory(ctx); err != nil {
		return err
	}
	return p.RefreshStatus(ctx)
}

// Status returns the last loaded bot status, or nil
func (p *BotPanel) Status() *bulk.BotStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == nil {
		return nil
	}
	s := *p.status
	return &s
}

// History returns the bot history with rendered statuses
func (p *BotPanel) History() []HistoryRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	return historyRows(p.history, p.cfg.Language)
}

func (p *BotPanel) changed() {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
