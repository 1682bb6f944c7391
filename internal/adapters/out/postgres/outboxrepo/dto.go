// Package outboxrepo stores StatusChanged notifications in order_notifications,
// written in the same transaction as the order change that raised them.
package outboxrepo

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NotificationDTO is one outbox row. ID gives the relay a stable order;
// EventID makes appends idempotent.
type NotificationDTO struct {
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	EventID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrderNumber    string         `gorm:"type:varchar(64);not null"`
	PreviousStatus int            `gorm:"not null"`
	NewStatus      int            `gorm:"not null"`
	Timestamp      time.Time      `gorm:"not null"`
	RecipientRefs  pq.StringArray `gorm:"type:text[]"`
	ActorID        string         `gorm:"type:varchar(128)"`
	ActorRole      string         `gorm:"type:varchar(32)"`
	CreatedAt      time.Time
	PublishedAt    *time.Time `gorm:"index"`
}

func (NotificationDTO) TableName() string {
	return "order_notifications"
}

func fromDomain(event order.StatusChanged) NotificationDTO {
	recipients := make(pq.StringArray, 0, len(event.RecipientRefs))
	for _, ref := range event.RecipientRefs {
		recipients = append(recipients, ref.String())
	}

	return NotificationDTO{
		EventID:        event.EventID.Bytes(),
		OrderID:        event.OrderID.Bytes(),
		OrderNumber:    event.OrderNumber,
		PreviousStatus: int(event.PreviousStatus),
		NewStatus:      int(event.NewStatus),
		Timestamp:      event.Timestamp,
		RecipientRefs:  recipients,
		ActorID:        event.Actor.ID,
		ActorRole:      string(event.Actor.Role),
	}
}

func toDomain(dto NotificationDTO) (order.StatusChanged, error) {
	eventID, err := kernel.UUIDFromBytes(dto.EventID[:])
	if err != nil {
		return order.StatusChanged{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.StatusChanged{}, err
	}

	recipients := make([]kernel.UUID, 0, len(dto.RecipientRefs))
	for _, raw := range dto.RecipientRefs {
		ref, refErr := kernel.UUIDFromString(raw)
		if refErr != nil {
			return order.StatusChanged{}, refErr
		}
		recipients = append(recipients, ref)
	}

	return order.StatusChanged{
		EventID:        eventID,
		OrderID:        orderID,
		OrderNumber:    dto.OrderNumber,
		PreviousStatus: order.Status(dto.PreviousStatus),
		NewStatus:      order.Status(dto.NewStatus),
		Timestamp:      dto.Timestamp.UTC(),
		RecipientRefs:  recipients,
		Actor:          order.Actor{ID: dto.ActorID, Role: order.Role(dto.ActorRole)},
	}, nil
}
