package commands

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/guard"
)

var (
	ErrSubmitReviewCommandIsNotConstructed = errors.New(
		"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
	)
)

// SubmitReviewCommand carries the customer's ratings for a delivered order.
type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	review  order.Review

	guard guard.ConstructorGuard
}

// NewSubmitReviewCommand validates the 1..5 ratings up front.
func NewSubmitReviewCommand(
	orderID kernel.UUID,
	customerRating, driverRating, restaurantRating int,
	comment string,
) (SubmitReviewCommand, error) {
	cmd := SubmitReviewCommand{
		guard: guard.NewConstructorGuard(),
	}

	review := order.Review{
		CustomerRating:   customerRating,
		DriverRating:     driverRating,
		RestaurantRating: restaurantRating,
		Comment:          strings.TrimSpace(comment),
	}
	if err := errors.Join(
		cmd.setOrderID(orderID),
		review.Validate(),
	); err != nil {
		return SubmitReviewCommand{}, err
	}
	cmd.review = review

	return cmd, nil
}

func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

func (c SubmitReviewCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitReviewCommand) Review() order.Review {
	return c.review
}

func (c *SubmitReviewCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
