package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// aggregateTracker collects written orders so their pending events reach the
// outbox in the same transaction.
type aggregateTracker interface {
	TrackAggregate(ctx context.Context, aggregate *order.Order) error
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order with its items, promotions and tracking log at version 1.
// An existing id is a validation error. A duplicate order number returns
// ports.ErrOrderNumberTaken; the database
// must be opened with gorm.Config.TranslateError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", aggregate.ID().String()).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return errs.NewValueIsInvalidErrorWithCause("order id",
			fmt.Errorf("order %s already exists", aggregate.ID()))
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrOrderNumberTaken
		}
		return err
	}

	aggregate.AdvanceVersion()
	return r.tracker.TrackAggregate(ctx, aggregate)
}

// Update writes the order row only if its version is still expectedVersion and
// inserts tracking entries that are not stored yet. Items and promotions are
// fixed at placement and never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = expectedVersion + 1
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Select("*").
		Omit("id", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String(), expectedVersion)
	}

	if len(dto.TrackingUpdates) > 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.TrackingUpdates).Error
		if err != nil {
			return err
		}
	}

	aggregate.AdvanceVersion()
	return r.tracker.TrackAggregate(ctx, aggregate)
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preload(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.preload(ctx).First(&dto, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ListActive(ctx context.Context, limit int) ([]*order.Order, error) {
	return r.find(r.preload(ctx).
		Where("status BETWEEN ? AND ?", int(order.Pending), int(order.PickedUp)), limit)
}

func (r *GormOrderRepository) ListUnpaidPlacedBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	return r.find(r.preload(ctx).
		Where("status = ? AND placed_at < ?", int(order.PendingPayment), cutoff), limit)
}

func (r *GormOrderRepository) find(query *gorm.DB, limit int) ([]*order.Order, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []OrderDTO
	if err := query.Order("placed_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Promotions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("TrackingUpdates", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
