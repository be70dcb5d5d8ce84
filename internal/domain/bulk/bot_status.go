package bulk

import "time"

// BotStatus aggregates the import bot panel: the external messaging bot,
// the file importer and overall catalog counters.
type BotStatus struct {
	TelegramBot  TelegramBotStatus `json:"telegram_bot"`
	CSVImporter  CSVImporterStats  `json:"csv_importer"`
	GeneralStats GeneralStats      `json:"general_stats"`
}

// TelegramBotStatus is reported by the messaging bot collaborator
type TelegramBotStatus struct {
	Status                 string     `json:"status"`
	ProductsImported       int        `json:"products_imported"`
	LastActivity           *time.Time `json:"last_activity,omitempty"`
	TotalMessagesProcessed int        `json:"total_messages_processed"`
	Errors                 int        `json:"errors"`
}

// CSVImporterStats summarizes recent file imports
type CSVImporterStats struct {
	RecentImports int        `json:"recent_imports"`
	TotalImported int        `json:"total_imported"`
	LastImport    *time.Time `json:"last_import,omitempty"`
}

// GeneralStats holds catalog-wide counters
type GeneralStats struct {
	TotalProducts  int64 `json:"total_products"`
	RecentProducts int64 `json:"recent_products"`
	ActiveImports  int   `json:"active_imports"`
}

// Bot activity states
const (
	BotActive   = "active"
	BotInactive = "inactive"
)
