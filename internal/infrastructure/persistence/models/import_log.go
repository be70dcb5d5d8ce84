package models

import (
	"time"

	"github.com/storefront/backoffice/internal/domain/bulk"
)

// ImportLogModel is the persistence model for the ImportLog aggregate.
type ImportLogModel struct {
	AggregateModel
	Filename     string            `gorm:"type:varchar(255);not null"`
	FileSize     int64             `gorm:"not null;default:0"`
	Status       bulk.ImportStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	SuccessCount int               `gorm:"not null;default:0"`
	ErrorCount   int               `gorm:"not null;default:0"`
	ErrorMessage string            `gorm:"type:text"`
	UploadedBy   string            `gorm:"type:varchar(100)"`
	StorageKey   string            `gorm:"type:varchar(512)"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (ImportLogModel) TableName() string {
	return "import_logs"
}

// ToDomain converts the persistence model to a domain ImportLog.
func (m *ImportLogModel) ToDomain() *bulk.ImportLog {
	return &bulk.ImportLog{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Filename:          m.Filename,
		FileSize:          m.FileSize,
		Status:            m.Status,
		SuccessCount:      m.SuccessCount,
		ErrorCount:        m.ErrorCount,
		ErrorMessage:      m.ErrorMessage,
		UploadedBy:        m.UploadedBy,
		StorageKey:        m.StorageKey,
		CompletedAt:       m.CompletedAt,
	}
}

// ImportLogModelFromDomain creates a persistence model from a domain ImportLog.
func ImportLogModelFromDomain(l *bulk.ImportLog) *ImportLogModel {
	m := &ImportLogModel{
		Filename:     l.Filename,
		FileSize:     l.FileSize,
		Status:       l.Status,
		SuccessCount: l.SuccessCount,
		ErrorCount:   l.ErrorCount,
		ErrorMessage: l.ErrorMessage,
		UploadedBy:   l.UploadedBy,
		StorageKey:   l.StorageKey,
	}
	if l.CompletedAt != nil {
		completed := l.CompletedAt.UTC()
		m.CompletedAt = &completed
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return m
}
