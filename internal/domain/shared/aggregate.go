package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds identity and timestamps shared by every persisted record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseAggregateRoot adds an optimistic-lock version. Version starts at 1 and
// grows by one on every state change that is persisted.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot returns a root with a fresh id stamped now
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// Bump records a state change at the given time
func (a *BaseAggregateRoot) Bump(at time.Time) {
	a.UpdatedAt = at
	a.Version++
}
