// Package postgres provides the GORM-based Unit of Work for the order engine.
//
// A unit of work wraps one database transaction. Orders written through its
// OrderRepository are tracked, and on Commit their pending StatusChanged
// events are appended to the order_notifications outbox inside the same
// transaction, so a notification exists if and only if its transition was
// committed.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	expected := o.Version()
//	if err = o.ApplyTransition(order.Confirmed, tc); err != nil {
//	    return err
//	}
//	if err = uow.OrderRepository().Update(ctx, o, expected); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance holds its own transaction; never share one between goroutines
//   - Conflicting writers are detected by the version check in Update, not by locks
//   - Without Begin, every repository write runs and flushes its events on its own
package postgres

import (
	"context"

	"orderengine/internal/adapters/out/postgres/orderrepo"
	"orderengine/internal/adapters/out/postgres/outboxrepo"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
// Each call returns a fresh instance with its own transaction state.
//
// Example:
//
//	db, err := postgres.Open(dsn)
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

var _ ports.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction and the outbox writes
// of the orders changed in it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []*order.Order
}

// Begin starts the transaction. Calling it again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.tracked = nil
	return nil
}

// Commit appends the tracked orders' events to the outbox and commits. The
// orders' pending events are cleared only once the commit succeeded.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	tx := uow.tx
	tracked := uow.tracked
	uow.tx, uow.tracked = nil, nil

	if err := appendEvents(ctx, tx, tracked); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	for _, o := range tracked {
		o.ClearEvents()
	}
	return nil
}

// Rollback discards the transaction. Tracked orders keep their events.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx, uow.tracked = nil, nil
	return err
}

// OrderRepository returns a repository bound to the open transaction, or to
// the pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate is called by the order repository after every write. Inside
// a transaction the order is remembered until Commit; outside one its events
// are stored right away.
func (uow *GormUnitOfWork) TrackAggregate(ctx context.Context, aggregate *order.Order) error {
	if uow.tx != nil {
		for _, o := range uow.tracked {
			if o == aggregate {
				return nil
			}
		}
		uow.tracked = append(uow.tracked, aggregate)
		return nil
	}

	if err := appendEvents(ctx, uow.db, []*order.Order{aggregate}); err != nil {
		return err
	}
	aggregate.ClearEvents()
	return nil
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func appendEvents(ctx context.Context, db *gorm.DB, orders []*order.Order) error {
	var events []order.StatusChanged
	for _, o := range orders {
		events = append(events, o.Events()...)
	}
	return outboxrepo.NewGormOutboxRepository(db).Append(ctx, events)
}
