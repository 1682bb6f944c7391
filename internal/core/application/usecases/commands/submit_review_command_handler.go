package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// SubmitReviewCommandHandler stores a review once per delivered order.
type SubmitReviewCommandHandler struct {
	mutator orderMutator
	now     func() time.Time
}

func NewSubmitReviewCommandHandler(uowFactory OrderUoWFactory, retryConfig retry.Config) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		mutator: orderMutator{uowFactory: uowFactory, retry: retryConfig},
		now:     time.Now,
	}
}

func (h SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "SubmitReview", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(_ context.Context, o *order.Order) error {
		review := cmd.Review()
		review.SubmittedAt = h.now()
		return o.SubmitReview(review)
	})
}
