package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type orderWrite struct {
	aggregate *order.Order
	snapshot  order.Snapshot
	insert    bool
	expected  int64
}

type publishMark struct {
	ids []kernel.UUID
	at  time.Time
}

// UnitOfWork stages writes and applies them to the Store atomically on
// Commit, after re-checking every version and order number against what was
// committed in the meantime. Outside Begin/Commit each write commits on its own.
type UnitOfWork struct {
	store  *Store
	active bool

	orders   []orderWrite
	appended []order.StatusChanged
	marks    []publishMark
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.reset()
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.reset()
	uow.active = false
	return uow.apply()
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.active = false
	uow.reset()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &outboxRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	uow.orders = nil
	uow.appended = nil
	uow.marks = nil
}

// flush commits immediately when no transaction is open.
func (uow *UnitOfWork) flush() error {
	if uow.active {
		return nil
	}
	defer uow.reset()
	return uow.apply()
}

func (uow *UnitOfWork) apply() error {
	s := uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[kernel.UUID]order.Snapshot, len(uow.orders))
	for _, w := range uow.orders {
		current, exists := seen[w.snapshot.ID]
		if !exists {
			current, exists = s.orders[w.snapshot.ID]
		}
		if err := s.check(w, current, exists); err != nil {
			return err
		}
		seen[w.snapshot.ID] = w.snapshot
	}

	for _, w := range uow.orders {
		s.orders[w.snapshot.ID] = w.snapshot
		s.numbers[w.snapshot.OrderNumber] = w.snapshot.ID
		for _, event := range w.aggregate.Events() {
			s.appendNotification(event)
		}
		w.aggregate.ClearEvents()
	}
	for _, event := range uow.appended {
		s.appendNotification(event)
	}
	for _, m := range uow.marks {
		for _, id := range m.ids {
			if idx, ok := s.outboxAt[id]; ok && s.outbox[idx].publishedAt == nil {
				at := m.at
				s.outbox[idx].publishedAt = &at
			}
		}
	}
	return nil
}

// check must be called with the store lock held.
func (s *Store) check(w orderWrite, current order.Snapshot, exists bool) error {
	if w.insert {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("order id",
				fmt.Errorf("order %s already exists", w.snapshot.ID))
		}
		if _, taken := s.numbers[w.snapshot.OrderNumber]; taken {
			return ports.ErrOrderNumberTaken
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", w.snapshot.ID.String())
	}
	if current.Version != w.expected {
		return errs.NewConcurrencyConflictError("order", w.snapshot.ID.String(), w.expected)
	}
	return nil
}

func (s *Store) appendNotification(event order.StatusChanged) {
	if _, dup := s.outboxAt[event.EventID]; dup {
		return
	}
	s.outboxAt[event.EventID] = len(s.outbox)
	s.outbox = append(s.outbox, notification{event: event})
}

// staged returns the newest snapshot this unit of work holds that matches.
func (uow *UnitOfWork) staged(match func(order.Snapshot) bool) (order.Snapshot, bool) {
	for i := len(uow.orders) - 1; i >= 0; i-- {
		if match(uow.orders[i].snapshot) {
			return uow.orders[i].snapshot, true
		}
	}
	return order.Snapshot{}, false
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := r.uow.store
	s.mu.RLock()
	_, taken := s.numbers[aggregate.OrderNumber()]
	s.mu.RUnlock()
	if taken {
		return ports.ErrOrderNumberTaken
	}

	aggregate.AdvanceVersion()
	r.uow.orders = append(r.uow.orders, orderWrite{
		aggregate: aggregate,
		snapshot:  aggregate.Snapshot(),
		insert:    true,
	})
	return r.uow.flush()
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	current, exists := r.uow.staged(byID(aggregate.ID()))
	if !exists {
		s := r.uow.store
		s.mu.RLock()
		current, exists = s.orders[aggregate.ID()]
		s.mu.RUnlock()
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	if current.Version != expectedVersion {
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String(), expectedVersion)
	}

	aggregate.AdvanceVersion()
	r.uow.orders = append(r.uow.orders, orderWrite{
		aggregate: aggregate,
		snapshot:  aggregate.Snapshot(),
		expected:  expectedVersion,
	})
	return r.uow.flush()
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if snapshot, ok := r.uow.staged(byID(id)); ok {
		return order.RestoreOrder(snapshot)
	}
	return r.uow.store.get(id)
}

func (r *orderRepository) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	if snapshot, ok := r.uow.staged(func(s order.Snapshot) bool { return s.OrderNumber == number }); ok {
		return order.RestoreOrder(snapshot)
	}
	return r.uow.store.getByNumber(number)
}

func (r *orderRepository) ListActive(_ context.Context, limit int) ([]*order.Order, error) {
	return r.uow.store.list(func(s order.Snapshot) bool {
		return s.Status.IsActive()
	}, limit)
}

func (r *orderRepository) ListUnpaidPlacedBefore(_ context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	return r.uow.store.list(func(s order.Snapshot) bool {
		return s.Status == order.PendingPayment && s.PlacedAt.Before(cutoff)
	}, limit)
}

func byID(id kernel.UUID) func(order.Snapshot) bool {
	return func(s order.Snapshot) bool { return s.ID.IsEqual(id) }
}

type outboxRepository struct {
	uow *UnitOfWork
}

func (r *outboxRepository) Append(_ context.Context, events []order.StatusChanged) error {
	r.uow.appended = append(r.uow.appended, events...)
	return r.uow.flush()
}

func (r *outboxRepository) ListUnpublished(_ context.Context, limit int) ([]order.StatusChanged, error) {
	return r.uow.store.listUnpublished(limit), nil
}

func (r *outboxRepository) MarkPublished(_ context.Context, eventIDs []kernel.UUID, at time.Time) error {
	r.uow.marks = append(r.uow.marks, publishMark{ids: eventIDs, at: at})
	return r.uow.flush()
}
