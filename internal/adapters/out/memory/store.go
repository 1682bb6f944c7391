// Package memory is an in-process order store with the same optimistic
// concurrency and outbox semantics as the PostgreSQL adapter. It backs the
// dev profile and fast tests.
package memory

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

type notification struct {
	event       order.StatusChanged
	publishedAt *time.Time
}

// Store holds committed orders as snapshots so that callers never share
// mutable state with it.
type Store struct {
	mu       sync.RWMutex
	orders   map[kernel.UUID]order.Snapshot
	numbers  map[string]kernel.UUID
	outbox   []notification
	outboxAt map[kernel.UUID]int
}

func NewStore() *Store {
	return &Store{
		orders:   map[kernel.UUID]order.Snapshot{},
		numbers:  map[string]kernel.UUID{},
		outboxAt: map[kernel.UUID]int{},
	}
}

// UnitOfWorkFactory hands out units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

var _ ports.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

func (s *Store) get(id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	snapshot, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snapshot)
}

func (s *Store) getByNumber(number string) (*order.Order, error) {
	s.mu.RLock()
	id, ok := s.numbers[number]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", number)
	}
	return s.get(id)
}

// list restores the orders matching keep, oldest placement first.
func (s *Store) list(keep func(order.Snapshot) bool, limit int) ([]*order.Order, error) {
	s.mu.RLock()
	matched := make([]order.Snapshot, 0)
	for _, snapshot := range s.orders {
		if keep(snapshot) {
			matched = append(matched, snapshot)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b order.Snapshot) int {
		if c := a.PlacedAt.Compare(b.PlacedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	result := make([]*order.Order, 0, len(matched))
	for _, snapshot := range matched {
		o, err := order.RestoreOrder(snapshot)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (s *Store) listUnpublished(limit int) []order.StatusChanged {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]order.StatusChanged, 0)
	for _, n := range s.outbox {
		if n.publishedAt != nil {
			continue
		}
		events = append(events, n.event)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events
}
