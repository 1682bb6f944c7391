package outboxrepo

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

var _ ports.OutboxRepository = (*GormOutboxRepository)(nil)

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append stores events in the order given. Events already stored are skipped.
func (r *GormOutboxRepository) Append(ctx context.Context, events []order.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]NotificationDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, fromDomain(event))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&dtos).Error
}

func (r *GormOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]order.StatusChanged, error) {
	query := r.db.WithContext(ctx).Where("published_at IS NULL").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []NotificationDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]order.StatusChanged, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// MarkPublished stamps the given events. Events already marked keep their
// first publication time.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, eventIDs []kernel.UUID, at time.Time) error {
	if len(eventIDs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(eventIDs))
	for _, id := range eventIDs {
		ids = append(ids, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("event_id IN ? AND published_at IS NULL", ids).
		Update("published_at", at).Error
}
