package importapp

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/catalog"
	"github.com/storefront/backoffice/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"k8s.io/utils/clock"
)

// BotStatsWindow is how far back the bot panel counts recent activity
const BotStatsWindow = 7 * 24 * time.Hour

// BotStatusSource reports the state of the messaging bot that imports
// products from chat messages.
type BotStatusSource interface {
	TelegramStatus(ctx context.Context) (bulk.TelegramBotStatus, error)
}

// InactiveBot is the BotStatusSource used when no bot is deployed
type InactiveBot struct{}

// TelegramStatus always reports an idle bot
func (InactiveBot) TelegramStatus(context.Context) (bulk.TelegramBotStatus, error) {
	return bulk.TelegramBotStatus{Status: bulk.BotInactive}, nil
}

// BotService backs the bot panel: bot health, importer statistics and the
// import history with durations.
type BotService struct {
	jobs     *ImportJobService
	logs     bulk.ImportLogRepository
	products catalog.ProductRepository
	bot      BotStatusSource
	clock    clock.PassiveClock
	lang     language.Tag
	logger   *zap.Logger
}

// NewBotService creates a BotService. A nil source reports an inactive bot.
func NewBotService(jobs *ImportJobService, products catalog.ProductRepository, source BotStatusSource) *BotService {
	if source == nil {
		source = InactiveBot{}
	}
	return &BotService{
		jobs:     jobs,
		logs:     jobs.logs,
		products: products,
		bot:      source,
		clock:    jobs.clock,
		lang:     jobs.opts.Language,
		logger:   jobs.logger,
	}
}

// BotStatus aggregates the bot panel counters over the last seven days
func (s *BotService) BotStatus(ctx context.Context) (*bulk.BotStatus, error) {
	telegram, err := s.bot.TelegramStatus(ctx)
	if err != nil {
		s.logger.Warn("Bot status unavailable", zap.Error(err))
		telegram = bulk.TelegramBotStatus{Status: bulk.BotInactive}
	}

	since := s.clock.Now().Add(-BotStatsWindow)
	recent, err := s.logs.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent imports: %w", err)
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	recentProducts, err := s.products.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent products: %w", err)
	}

	importer := bulk.CSVImporterStats{RecentImports: len(recent)}
	active := 0
	for _, l := range recent {
		importer.TotalImported += l.SuccessCount
		if l.Status == bulk.ImportStatusProcessing {
			active++
		}
	}
	if len(recent) > 0 {
		last := recent[0].CreatedAt
		importer.LastImport = &last
	}

	return &bulk.BotStatus{
		TelegramBot: telegram,
		CSVImporter: importer,
		GeneralStats: bulk.GeneralStats{
			TotalProducts:  totalProducts,
			RecentProducts: recentProducts,
			ActiveImports:  active,
		},
	}, nil
}

// BotHistory lists imports newest first with a localized duration
func (s *BotService) BotHistory(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error) {
	page = page.Normalize(DefaultHistoryLimit, MaxHistoryLimit)
	logs, total, err := s.logs.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}

	entries := make([]bulk.ImportHistoryEntry, 0, len(logs))
	for _, l := range logs {
		entry := l.HistoryEntry()
		if l.CompletedAt != nil {
			entry.Duration = bulk.FormatDuration(l.Duration(), s.lang)
		}
		entries = append(entries, entry)
	}
	return &bulk.HistoryPage{Imports: entries, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// DeleteBotHistory removes one import log
func (s *BotService) DeleteBotHistory(ctx context.Context, importID string) error {
	return s.jobs.Delete(ctx, importID)
}
