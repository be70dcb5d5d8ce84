package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/storefront/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormImportLogRepository implements bulk.ImportLogRepository using GORM
type GormImportLogRepository struct {
	db *gorm.DB
}

// NewGormImportLogRepository creates a new GormImportLogRepository
func NewGormImportLogRepository(db *gorm.DB) *GormImportLogRepository {
	return &GormImportLogRepository{db: db}
}

// FindByID finds an import log by ID
func (r *GormImportLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportLog, error) {
	var model models.ImportLogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of logs, most recent first, and the total count
func (r *GormImportLogRepository) List(ctx context.Context, page shared.Page) ([]*bulk.ImportLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ImportLogModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logModels []models.ImportLogModel
	if err := query.Order("created_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&logModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainLogs(logModels), total, nil
}

// ListCreatedSince returns logs created at or after since, most recent first
func (r *GormImportLogRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*bulk.ImportLog, error) {
	var logModels []models.ImportLogModel
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since.UTC()).
		Order("created_at DESC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainLogs(logModels), nil
}

// FindByStatus finds all logs with a specific status
func (r *GormImportLogRepository) FindByStatus(ctx context.Context, status bulk.ImportStatus) ([]*bulk.ImportLog, error) {
	var logModels []models.ImportLogModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainLogs(logModels), nil
}

// ListFinishedBefore returns terminal logs created before the cutoff, oldest first
func (r *GormImportLogRepository) ListFinishedBefore(ctx context.Context, before time.Time, limit int) ([]*bulk.ImportLog, error) {
	var logModels []models.ImportLogModel
	if err := r.db.WithContext(ctx).
		Where("created_at < ? AND status <> ?", before.UTC(), bulk.ImportStatusProcessing).
		Order("created_at ASC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	return toDomainLogs(logModels), nil
}

// Save saves an import log (create or update)
func (r *GormImportLogRepository) Save(ctx context.Context, log *bulk.ImportLog) error {
	return r.db.WithContext(ctx).Save(models.ImportLogModelFromDomain(log)).Error
}

// Delete deletes an import log by ID
func (r *GormImportLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ImportLogModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainLogs(logModels []models.ImportLogModel) []*bulk.ImportLog {
	logs := make([]*bulk.ImportLog, len(logModels))
	for i := range logModels {
		logs[i] = logModels[i].ToDomain()
	}
	return logs
}

// Ensure GormImportLogRepository implements ImportLogRepository
var _ bulk.ImportLogRepository = (*GormImportLogRepository)(nil)
