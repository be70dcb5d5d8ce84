package importapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
	csvimport "github.com/storefront/backoffice/internal/infrastructure/import"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func (s *ImportJobService) worker() {
	defer s.wg.Done()
	for j := range s.queue {
		s.process(j)
	}
}

// jobRun is the mutable state of one file being processed
type jobRun struct {
	job       job
	log       *zap.Logger
	errs      *csvimport.ErrorCollection
	progress  *bulk.ImportJob
	processed int
	succeeded int
}

func (s *ImportJobService) process(j job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.JobTimeout)
	defer cancel()
	ctx, log := logger.WithImportID(ctx, s.logger, j.id.String())

	started := s.clock.Now()
	s.metrics.ImportStarted()

	run := &jobRun{
		job:  j,
		log:  log,
		errs: csvimport.NewErrorCollection(s.opts.Language, bulk.MaxDisplayedErrors, csvimport.DefaultTailSize),
		progress: &bulk.ImportJob{
			ID:        j.id.String(),
			Status:    bulk.ImportStatusProcessing,
			CreatedAt: j.created,
		},
	}

	status := s.run(ctx, run)
	s.metrics.ImportFinished(status, s.clock.Since(started), run.succeeded, run.progress.ErrorCount)
}

func (s *ImportJobService) run(ctx context.Context, r *jobRun) bulk.ImportStatus {
	// results are persisted even when the job context has ended
	persistCtx := context.WithoutCancel(ctx)

	rows, err := csvimport.ReadRows(r.job.filename, r.job.data)
	if err != nil {
		return s.fail(persistCtx, r, err)
	}

	total := len(rows)
	r.progress.Total = &total
	r.progress.Processed = &r.processed
	s.putProgress(persistCtx, r, 0)
	r.log.Info("Processing import", zap.Int("rows", total))

	// progress is written about once per percent
	step := max(1, total/100)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return s.fail(persistCtx, r, err)
		}
		if s.processRow(ctx, row, r.errs) {
			r.succeeded++
		}
		r.processed = i + 1
		if r.processed%step == 0 || r.processed == total {
			r.progress.Progress = r.processed * 100 / total
			s.snapshot(r)
			s.putProgress(persistCtx, r, 0)
		}
	}

	return s.complete(persistCtx, r)
}

// processRow validates and imports one row, recording any failure
func (s *ImportJobService) processRow(ctx context.Context, row *csvimport.Row, errs *csvimport.ErrorCollection) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			errs.AddRowPanic(row.LineNumber, fmt.Sprint(rec))
			ok = false
		}
	}()

	if problems := s.validator.Validate(row); len(problems) > 0 {
		errs.AddRowError(row.LineNumber, strings.Join(problems, "; "))
		return false
	}
	if _, err := s.importer.Import(ctx, csvimport.ExtractProduct(row)); err != nil {
		errs.AddRowError(row.LineNumber, err.Error())
		return false
	}
	return true
}

func (s *ImportJobService) complete(ctx context.Context, r *jobRun) bulk.ImportStatus {
	errorCount := r.errs.TotalCount()

	importLog, err := s.logs.FindByID(ctx, r.job.id)
	if err == nil {
		if err = importLog.Complete(r.succeeded, errorCount, r.errs.First()); err == nil {
			err = s.logs.Save(ctx, importLog)
		}
	}
	if err != nil {
		r.log.Error("Failed to record import result", zap.Error(err))
	}

	r.progress.Status = bulk.ImportStatusCompleted
	r.progress.Progress = 100
	r.progress.Message = bulk.ProjectStatus(bulk.ImportStatusCompleted, s.opts.Language).Label
	s.snapshot(r)
	s.putProgress(ctx, r, s.opts.ProgressTTL)

	r.log.Info("Import completed",
		zap.Int("success_count", r.succeeded),
		zap.Int("error_count", errorCount),
	)
	return bulk.ImportStatusCompleted
}

func (s *ImportJobService) fail(ctx context.Context, r *jobRun, cause error) bulk.ImportStatus {
	rowErrors := r.errs.TotalCount()
	r.errs.AddGeneral(cause.Error())
	reason := bulk.Localize(s.opts.Language, bulk.MsgGeneralError, cause.Error())

	importLog, err := s.logs.FindByID(ctx, r.job.id)
	if err == nil {
		if err = importLog.Fail(reason); err == nil {
			err = s.logs.Save(ctx, importLog)
		}
	}
	if err != nil {
		r.log.Error("Failed to record import failure", zap.Error(err))
	}

	r.progress.Status = bulk.ImportStatusFailed
	r.progress.Message = reason
	s.snapshot(r)
	r.progress.ErrorCount = rowErrors
	s.putProgress(ctx, r, s.opts.ProgressTTL)

	r.log.Error("Import failed", zap.Error(cause))
	return bulk.ImportStatusFailed
}

func (s *ImportJobService) snapshot(r *jobRun) {
	r.progress.SuccessCount = r.succeeded
	r.progress.ErrorCount = r.errs.TotalCount()
	r.progress.Errors = r.errs.Last()
}

func (s *ImportJobService) putProgress(ctx context.Context, r *jobRun, ttl time.Duration) {
	if err := s.progress.Put(ctx, r.progress, ttl); err != nil {
		r.log.Warn("Failed to store import progress", zap.Error(err))
	}
}
