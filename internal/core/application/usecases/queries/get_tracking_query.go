package queries

import (
	"errors"
	"fmt"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
	)
)

// GetTrackingQuery reads an order's tracking log after a known sequence
// number, so pollers only receive what they have not seen yet.
type GetTrackingQuery struct {
	orderID  kernel.UUID
	afterSeq int

	guard guard.ConstructorGuard
}

// NewGetTrackingQuery creates the query. afterSeq 0 returns the whole log.
func NewGetTrackingQuery(orderID kernel.UUID, afterSeq int) (GetTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}
	if afterSeq < 0 {
		return GetTrackingQuery{}, errs.NewValueIsInvalidErrorWithCause("after", fmt.Errorf("%d is negative", afterSeq))
	}
	return GetTrackingQuery{orderID: orderID, afterSeq: afterSeq, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

func (q GetTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetTrackingQuery) AfterSeq() int {
	return q.afterSeq
}

// GetTrackingQueryResponse is a slice of the tracking log. Final is true once
// the order is delivered or cancelled and no further entries can appear.
type GetTrackingQueryResponse struct {
	OrderID kernel.UUID            `json:"orderId"`
	Status  order.Status           `json:"status"`
	Final   bool                   `json:"final"`
	Updates []order.TrackingUpdate `json:"updates"`
}
