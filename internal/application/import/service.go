package importapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/catalog"
	"github.com/storefront/backoffice/internal/domain/shared"
	csvimport "github.com/storefront/backoffice/internal/infrastructure/import"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"k8s.io/utils/clock"
)

// Defaults applied to zero Options fields
const (
	DefaultMaxFileSize  = 10 << 20
	DefaultWorkers      = 2
	DefaultQueueSize    = 16
	DefaultProgressTTL  = time.Hour
	DefaultJobTimeout   = 30 * time.Minute
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ErrFileTooLarge is returned for uploads above the size cap
var ErrFileTooLarge = shared.NewDomainError("FILE_TOO_LARGE", bulk.MsgFileTooLarge)

// ErrServiceStopped is returned for uploads after Shutdown
var ErrServiceStopped = shared.NewDomainError("SERVICE_UNAVAILABLE", bulk.MsgServiceStopping)

// MetricsRecorder receives job lifecycle events
type MetricsRecorder interface {
	ImportStarted()
	ImportFinished(status bulk.ImportStatus, elapsed time.Duration, succeeded, failed int)
}

type nopMetrics struct{}

func (nopMetrics) ImportStarted()                                            {}
func (nopMetrics) ImportFinished(bulk.ImportStatus, time.Duration, int, int) {}

// Options tunes the job service
type Options struct {
	MaxFileSize int64
	Workers     int
	QueueSize   int
	ProgressTTL time.Duration
	JobTimeout  time.Duration
	Language    language.Tag
}

func (o *Options) applyDefaults() {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.ProgressTTL <= 0 {
		o.ProgressTTL = DefaultProgressTTL
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = DefaultJobTimeout
	}
	if o.Language == language.Und {
		o.Language = bulk.DefaultLanguage
	}
}

// Dependencies are the collaborators of the job service. Archive and
// Metrics are optional.
type Dependencies struct {
	Logs     bulk.ImportLogRepository
	Products catalog.ProductRepository
	Progress bulk.ProgressStore
	Archive  bulk.UploadArchive
	Metrics  MetricsRecorder
	Logger   *zap.Logger
	Clock    clock.PassiveClock
}

// UploadInput is one received file
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
	UploadedBy  string
}

type job struct {
	id       uuid.UUID
	filename string
	data     []byte
	created  time.Time
}

// ImportJobService accepts product files, processes them on a bounded
// worker pool and answers status and history queries.
type ImportJobService struct {
	logs      bulk.ImportLogRepository
	progress  bulk.ProgressStore
	archive   bulk.UploadArchive
	importer  *ProductImporter
	validator *csvimport.RowValidator
	metrics   MetricsRecorder
	logger    *zap.Logger
	clock     clock.PassiveClock
	opts      Options

	queue  chan job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	// stopping is closed by Shutdown; senders counts uploads that may
	// still send on queue, which is closed only after they are gone
	stopping chan struct{}
	senders  sync.WaitGroup
}

// NewImportJobService creates the service and starts its workers
func NewImportJobService(deps Dependencies, opts Options) *ImportJobService {
	opts.applyDefaults()
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &ImportJobService{
		logs:      deps.Logs,
		progress:  deps.Progress,
		archive:   deps.Archive,
		importer:  NewProductImporter(deps.Products, opts.Language),
		validator: csvimport.NewRowValidator(opts.Language),
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		clock:     deps.Clock,
		opts:      opts,
		queue:     make(chan job, opts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		stopping:  make(chan struct{}),
	}

	for w := 0; w < opts.Workers; w++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Upload validates the file, records the import and queues it for processing
func (s *ImportJobService) Upload(ctx context.Context, in UploadInput) (*bulk.UploadReceipt, error) {
	if !bulk.HasAcceptedExtension(in.Filename) {
		return nil, shared.NewDomainError(bulk.ErrUnsupportedFileType.Code,
			bulk.Localize(s.opts.Language, bulk.MsgUnsupportedFormat))
	}
	if int64(len(in.Data)) > s.opts.MaxFileSize {
		return nil, s.fileTooLarge()
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, s.serviceStopped()
	}
	s.senders.Add(1)
	s.mu.Unlock()
	defer s.senders.Done()

	id := uuid.New()
	ctx, log := logger.WithImportID(ctx, s.logger, id.String())

	importLog, err := bulk.NewImportLog(id, in.Filename, int64(len(in.Data)), in.UploadedBy)
	if err != nil {
		return nil, err
	}
	if s.archive != nil {
		key, err := s.archive.Put(ctx, id, in.Filename, in.ContentType, in.Data)
		if err != nil {
			log.Warn("Failed to archive upload", zap.Error(err))
		} else {
			importLog.AttachStorageKey(key)
		}
	}
	if err := s.logs.Save(ctx, importLog); err != nil {
		return nil, fmt.Errorf("failed to save import log: %w", err)
	}

	message := bulk.Localize(s.opts.Language, bulk.MsgUploadAccepted)
	if err := s.progress.Put(ctx, &bulk.ImportJob{
		ID:        id.String(),
		Status:    bulk.ImportStatusProcessing,
		CreatedAt: importLog.CreatedAt,
		Message:   message,
	}, 0); err != nil {
		log.Warn("Failed to seed import progress", zap.Error(err))
	}

	select {
	case s.queue <- job{id: id, filename: in.Filename, data: in.Data, created: importLog.CreatedAt}:
	case <-ctx.Done():
		s.abandon(importLog, ctx.Err())
		return nil, ctx.Err()
	case <-s.stopping:
		err := s.serviceStopped()
		s.abandon(importLog, err)
		return nil, err
	}

	log.Info("Import queued",
		zap.String("filename", in.Filename),
		zap.Int("size", len(in.Data)),
		zap.String("uploaded_by", in.UploadedBy),
	)
	return &bulk.UploadReceipt{
		ImportID: id.String(),
		Status:   bulk.ImportStatusProcessing,
		Message:  message,
	}, nil
}

func (s *ImportJobService) serviceStopped() error {
	return shared.NewDomainError(ErrServiceStopped.Code,
		bulk.Localize(s.opts.Language, bulk.MsgServiceStopping))
}

func (s *ImportJobService) fileTooLarge() error {
	mb := strconv.FormatInt(s.opts.MaxFileSize>>20, 10)
	return shared.NewDomainError(ErrFileTooLarge.Code,
		bulk.Localize(s.opts.Language, bulk.MsgFileTooLarge, mb))
}

// abandon fails a log whose job never reached the queue
func (s *ImportJobService) abandon(importLog *bulk.ImportLog, cause error) {
	ctx := context.Background()
	reason := bulk.Localize(s.opts.Language, bulk.MsgGeneralError, cause.Error())
	if err := importLog.Fail(reason); err == nil {
		_ = s.logs.Save(ctx, importLog)
	}
	_ = s.progress.Delete(ctx, importLog.ID.String())
}

// Status returns the in-flight progress of an import, falling back to its
// durable log once the progress has expired.
func (s *ImportJobService) Status(ctx context.Context, importID string) (*bulk.ImportJob, error) {
	job, err := s.progress.Get(ctx, importID)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Progress lookup failed, reading import log",
			zap.String("import_id", importID),
			zap.Error(err),
		)
	}

	importLog, err := s.findLog(ctx, importID)
	if err != nil {
		return nil, err
	}
	return s.jobFromLog(importLog), nil
}

func (s *ImportJobService) jobFromLog(l *bulk.ImportLog) *bulk.ImportJob {
	job := &bulk.ImportJob{
		ID:           l.ID.String(),
		Status:       l.Status,
		SuccessCount: l.SuccessCount,
		ErrorCount:   l.ErrorCount,
		CreatedAt:    l.CreatedAt,
		Message:      l.ErrorMessage,
	}
	if l.Status.IsTerminal() {
		job.Progress = 100
	}
	if job.Message == "" {
		job.Message = bulk.ProjectStatus(bulk.ImportStatusCompleted, s.opts.Language).Label
	}
	return job
}

// History returns a newest-first page of import logs
func (s *ImportJobService) History(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error) {
	page = page.Normalize(DefaultHistoryLimit, MaxHistoryLimit)
	logs, total, err := s.logs.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}

	entries := make([]bulk.ImportHistoryEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, l.HistoryEntry())
	}
	return &bulk.HistoryPage{Imports: entries, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Delete removes an import log together with its progress and archived file
func (s *ImportJobService) Delete(ctx context.Context, importID string) error {
	importLog, err := s.findLog(ctx, importID)
	if err != nil {
		return err
	}
	return s.remove(ctx, importLog)
}

// remove deletes the log first; progress and archive cleanup are best effort
func (s *ImportJobService) remove(ctx context.Context, importLog *bulk.ImportLog) error {
	if err := s.logs.Delete(ctx, importLog.ID); err != nil {
		return err
	}

	importID := importLog.ID.String()
	ctx, log := logger.WithImportID(ctx, s.logger, importID)
	if err := s.progress.Delete(ctx, importID); err != nil {
		log.Warn("Failed to delete import progress", zap.Error(err))
	}
	if s.archive != nil && importLog.StorageKey != "" {
		if err := s.archive.Delete(ctx, importLog.StorageKey); err != nil {
			log.Warn("Failed to delete archived upload",
				zap.String("key", importLog.StorageKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// purgeBatch bounds how many logs one Purge pass loads at a time
const purgeBatch = 100

// Purge deletes finished imports created before cutoff, together with their
// progress and archived files. Running imports are never purged. It returns
// the number of logs removed.
func (s *ImportJobService) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	purged := 0
	for {
		batch, err := s.logs.ListFinishedBefore(ctx, cutoff, purgeBatch)
		if err != nil {
			return purged, fmt.Errorf("failed to list expired imports: %w", err)
		}
		for _, l := range batch {
			err := s.remove(ctx, l)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return purged, fmt.Errorf("failed to purge import %s: %w", l.ID, err)
			}
			purged++
		}
		if len(batch) < purgeBatch {
			break
		}
	}
	if purged > 0 {
		s.logger.Info("Purged expired imports", zap.Int("count", purged), zap.Time("cutoff", cutoff))
	}
	return purged, nil
}

// Template returns the sample import file
func (s *ImportJobService) Template() (*bulk.Template, error) {
	tmpl, err := csvimport.ProductTemplate()
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Recover fails imports left in processing by a previous process. It
// returns the number of logs it closed.
func (s *ImportJobService) Recover(ctx context.Context) (int, error) {
	stale, err := s.logs.FindByStatus(ctx, bulk.ImportStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to find interrupted imports: %w", err)
	}

	reason := bulk.Localize(s.opts.Language, bulk.MsgGeneralError,
		bulk.Localize(s.opts.Language, bulk.MsgImportInterrupted))
	recovered := 0
	for _, l := range stale {
		if err := l.Fail(reason); err != nil {
			continue
		}
		if err := s.logs.Save(ctx, l); err != nil {
			return recovered, fmt.Errorf("failed to save interrupted import %s: %w", l.ID, err)
		}
		recovered++
	}
	if recovered > 0 {
		s.logger.Warn("Recovered interrupted imports", zap.Int("count", recovered))
	}
	return recovered, nil
}

// Shutdown stops accepting uploads and waits for queued jobs. When ctx ends
// first, running jobs are cancelled and marked failed.
func (s *ImportJobService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopping)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.senders.Wait()
		close(s.queue)
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

func (s *ImportJobService) findLog(ctx context.Context, importID string) (*bulk.ImportLog, error) {
	id, err := uuid.Parse(importID)
	if err != nil {
		return nil, s.notFound()
	}
	l, err := s.logs.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, s.notFound()
	}
	return l, err
}

func (s *ImportJobService) notFound() error {
	return shared.NewDomainError(shared.ErrNotFound.Code, bulk.Localize(s.opts.Language, bulk.MsgImportNotFound))
}
