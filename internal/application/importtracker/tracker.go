// Package importtracker follows one bulk product import from upload to its
// terminal status and keeps a snapshot of the import history. It is the
// state behind the admin import screen and the importctl watch command.
package importtracker

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/infrastructure/importclient"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"k8s.io/utils/clock"
)

// Defaults applied to zero Config fields
const (
	DefaultPollInterval = 2 * time.Second
	DefaultHistoryLimit = 20
)

// API is the part of the import API the tracker uses.
// *importclient.Client implements it.
type API interface {
	Upload(ctx context.Context, file importclient.File) (*bulk.UploadReceipt, error)
	Status(ctx context.Context, importID string) (*bulk.ImportJob, error)
	History(ctx context.Context, limit int) (*bulk.HistoryPage, error)
	DeleteHistory(ctx context.Context, importID string) error
}

// Config tunes a Tracker or BotPanel
type Config struct {
	PollInterval time.Duration
	HistoryLimit int
	Language     language.Tag
	Clock        clock.WithTicker
	Logger       *zap.Logger
}

func (c Config) withDefaults(interval time.Duration, limit int) Config {
	if c.PollInterval <= 0 {
		c.PollInterval = interval
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = limit
	}
	if c.Language == language.Und {
		c.Language = bulk.DefaultLanguage
	}
	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// ImportFile is a file picked for upload
type ImportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// HistoryRow is a history entry with its rendered status
type HistoryRow struct {
	bulk.ImportHistoryEntry
	View bulk.StatusView
}

// Snapshot is a copy of the tracker state for renderers
type Snapshot struct {
	SelectedFile  string
	Job           *bulk.ImportJob
	JobView       bulk.StatusView
	PollState     PollState
	History       []HistoryRow
	HistoryLoaded bool
	HistoryEmpty  bool
	Loading       bool
	EmptyMessage  string
}

// Tracker tracks at most one live import. Uploading a new file abandons
// the previous job; its record stays on the server and shows up in history.
type Tracker struct {
	api    API
	cfg    Config
	logger *zap.Logger

	mu            sync.Mutex
	selected      *ImportFile
	job           *bulk.ImportJob
	state         PollState
	session       *pollSession
	sessions      uint64
	seq           uint64
	history       []bulk.ImportHistoryEntry
	historyLoaded bool
	loading       bool
	closed        bool
	listeners     []func(Snapshot)

	// historySeq numbers history requests; historyApplied is the newest
	// one whose response is in history
	historySeq      uint64
	historyApplied  uint64
	historyInflight int
}

// New creates an idle tracker
func New(api API, cfg Config) *Tracker {
	cfg = cfg.withDefaults(DefaultPollInterval, DefaultHistoryLimit)
	return &Tracker{
		api:    api,
		cfg:    cfg,
		logger: cfg.Logger.Named("importtracker"),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
// Listeners run outside the tracker lock.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// SelectFile validates and remembers the file for the next Upload
func (t *Tracker) SelectFile(file ImportFile) error {
	if err := bulk.ValidateImportFile(file.Name, file.ContentType); err != nil {
		return err
	}
	t.mu.Lock()
	t.selected = &file
	t.mu.Unlock()
	t.notify()
	return nil
}

// Upload sends the selected file and starts polling the new job
func (t *Tracker) Upload(ctx context.Context) (*bulk.ImportJob, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	file := t.selected
	t.mu.Unlock()
	if file == nil {
		return nil, ErrNoFileSelected
	}

	receipt, err := t.api.Upload(ctx, importclient.File{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		t.logger.Warn("Import upload failed", zap.String("filename", file.Name), zap.Error(err))
		return nil, &UploadError{
			Message: bulk.Localize(t.cfg.Language, bulk.MsgUploadFailed),
			Err:     err,
		}
	}

	job := &bulk.ImportJob{
		ID:        receipt.ImportID,
		Status:    receipt.Status,
		Message:   receipt.Message,
		CreatedAt: t.cfg.Clock.Now(),
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	if t.selected == file {
		t.selected = nil
	}
	t.job = job
	t.startLocked(job.ID)
	out := job.Clone()
	t.mu.Unlock()

	t.logger.Info("Tracking import", zap.String("import_id", job.ID), zap.String("filename", file.Name))
	t.notify()
	return out, nil
}

// Dismiss stops tracking the current job
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	t.releaseLocked(t.session)
	t.job = nil
	if t.state == PollPolling {
		t.state = PollStopped
	}
	t.mu.Unlock()
	t.notify()
}

// Close releases the poll session. The tracker cannot upload afterwards.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.releaseLocked(t.session)
	if t.state == PollPolling {
		t.state = PollStopped
	}
}

// Job returns a copy of the tracked job, or nil
func (t *Tracker) Job() *bulk.ImportJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.job.Clone()
}

// PollState returns the poller state
func (t *Tracker) PollState() PollState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SelectedFile returns the name of the pending file, or ""
func (t *Tracker) SelectedFile() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selected == nil {
		return ""
	}
	return t.selected.Name
}

// Snapshot returns a copy of the whole state
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := Snapshot{
		Job:           t.job.Clone(),
		PollState:     t.state,
		History:       historyRows(t.history, t.cfg.Language),
		HistoryLoaded: t.historyLoaded,
		HistoryEmpty:  t.historyLoaded && len(t.history) == 0,
		Loading:       t.loading,
	}
	if t.selected != nil {
		s.SelectedFile = t.selected.Name
	}
	if t.job != nil {
		s.JobView = bulk.ProjectStatus(t.job.Status, t.cfg.Language)
	}
	if s.HistoryEmpty {
		s.EmptyMessage = bulk.Localize(t.cfg.Language, bulk.MsgNoImportsYet)
	}
	return s
}

func (t *Tracker) notify() {
	t.mu.Lock()
	if len(t.listeners) == 0 {
		t.mu.Unlock()
		return
	}
	snap := t.snapshotLocked()
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func historyRows(entries []bulk.ImportHistoryEntry, lang language.Tag) []HistoryRow {
	rows := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow{ImportHistoryEntry: e, View: bulk.ProjectStatus(e.Status, lang)})
	}
	return rows
}
