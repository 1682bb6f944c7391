package queries

import (
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

const (
	DefaultActiveOrdersLimit = 100
	MaxActiveOrdersLimit     = 500
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists paid orders that are still in flight, oldest
// first, for operations dashboards.
type GetActiveOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates the query. A limit of zero selects
// DefaultActiveOrdersLimit.
func NewGetActiveOrdersQuery(limit int) (GetActiveOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultActiveOrdersLimit
	}
	if limit < 0 || limit > MaxActiveOrdersLimit {
		return GetActiveOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxActiveOrdersLimit)
	}
	return GetActiveOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) Limit() int {
	return q.limit
}

// ActiveOrder is the summary of one in-flight order.
type ActiveOrder struct {
	ID            kernel.UUID  `json:"id"`
	OrderNumber   string       `json:"orderNumber"`
	Status        order.Status `json:"status"`
	RestaurantRef kernel.UUID  `json:"restaurantRef"`
	DriverRef     *kernel.UUID `json:"driverRef,omitempty"`
	PlacedAt      time.Time    `json:"placedAt"`
	TotalAmount   kernel.Money `json:"totalAmount"`
	LastUpdate    string       `json:"lastUpdate"`
}
