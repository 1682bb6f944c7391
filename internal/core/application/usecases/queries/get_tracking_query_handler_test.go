package queries_test

import (
	"context"
	"testing"
	"time"

	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetTrackingQuery(t *testing.T) {
	t.Run("should reject a negative sequence", func(t *testing.T) {
		_, err := queries.NewGetTrackingQuery(kernel.NewUUID(), -1)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a nil order id", func(t *testing.T) {
		_, err := queries.NewGetTrackingQuery(kernel.UUID{}, 0)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGetTrackingQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the whole log from zero", func(t *testing.T) {
		o := paidOrder(t, "FD-250504-trk")
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
		q, err := queries.NewGetTrackingQuery(o.ID(), 0)
		require.NoError(t, err)

		resp, err := queries.NewGetTrackingQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		assert.Equal(t, o.Tracking().Len(), len(resp.Updates))
		assert.Equal(t, order.Confirmed, resp.Status)
		assert.False(t, resp.Final)
		for i, u := range resp.Updates {
			assert.Equal(t, i+1, u.Seq)
		}
	})

	t.Run("should only return entries after the given sequence", func(t *testing.T) {
		o := paidOrder(t, "FD-250504-trk")
		require.NoError(t, o.AddTrackingPing("Rider is two blocks away", nil, placedAt.Add(10*time.Minute)))
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
		q, err := queries.NewGetTrackingQuery(o.ID(), o.Tracking().Len()-1)
		require.NoError(t, err)

		resp, err := queries.NewGetTrackingQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		require.Len(t, resp.Updates, 1)
		assert.Equal(t, "Rider is two blocks away", resp.Updates[0].Message)
	})

	t.Run("should return an empty list when the caller is up to date", func(t *testing.T) {
		o := paidOrder(t, "FD-250504-trk")
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
		q, err := queries.NewGetTrackingQuery(o.ID(), o.Tracking().Len())
		require.NoError(t, err)

		resp, err := queries.NewGetTrackingQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		assert.NotNil(t, resp.Updates)
		assert.Empty(t, resp.Updates)
	})

	t.Run("should mark cancelled orders final", func(t *testing.T) {
		o := newOrder(t, "FD-250504-cxl")
		require.NoError(t, o.ApplyTransition(order.Cancelled, order.TransitionContext{
			Actor:              order.SystemActor,
			CancellationReason: "payment_timeout",
			At:                 placedAt.Add(30 * time.Minute),
		}))
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
		q, err := queries.NewGetTrackingQuery(o.ID(), 0)
		require.NoError(t, err)

		resp, err := queries.NewGetTrackingQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		assert.True(t, resp.Final)
		assert.Equal(t, order.Cancelled, resp.Status)
	})
}
