package queries_test

import (
	"context"
	"errors"
	"testing"

	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetActiveOrdersQuery(t *testing.T) {
	testCases := []struct {
		name     string
		limit    int
		expected int
		wantErr  bool
	}{
		{"zero selects the default", 0, queries.DefaultActiveOrdersLimit, false},
		{"explicit limit", 25, 25, false},
		{"maximum", queries.MaxActiveOrdersLimit, queries.MaxActiveOrdersLimit, false},
		{"negative", -1, 0, true},
		{"above maximum", queries.MaxActiveOrdersLimit + 1, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := queries.NewGetActiveOrdersQuery(tc.limit)

			if tc.wantErr {
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, q.Limit())
		})
	}
}

func TestGetActiveOrdersQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should summarize each order", func(t *testing.T) {
		first := paidOrder(t, "FD-250504-one")
		second := paidOrder(t, "FD-250504-two")
		reader := new(MockOrderReader)
		reader.On("ListActive", mock.Anything, 10).Return([]*order.Order{first, second}, nil)
		q, err := queries.NewGetActiveOrdersQuery(10)
		require.NoError(t, err)

		result, err := queries.NewGetActiveOrdersQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "FD-250504-one", result[0].OrderNumber)
		assert.Equal(t, order.Confirmed, result[0].Status)
		assert.Equal(t, "Kitchen has your order", result[0].LastUpdate)
		assert.Equal(t, placedAt, result[0].PlacedAt)
		assert.Equal(t, first.TotalAmount(), result[0].TotalAmount)
		assert.Nil(t, result[0].DriverRef)
		assert.Equal(t, second.ID(), result[1].ID)
	})

	t.Run("should return an empty slice when nothing is active", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("ListActive", mock.Anything, queries.DefaultActiveOrdersLimit).Return([]*order.Order{}, nil)
		q, err := queries.NewGetActiveOrdersQuery(0)
		require.NoError(t, err)

		result, err := queries.NewGetActiveOrdersQueryHandler(reader).Handle(ctx, q)

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("should pass store errors through", func(t *testing.T) {
		boom := errors.New("connection reset")
		reader := new(MockOrderReader)
		reader.On("ListActive", mock.Anything, mock.Anything).Return(nil, boom)
		q, err := queries.NewGetActiveOrdersQuery(5)
		require.NoError(t, err)

		_, err = queries.NewGetActiveOrdersQueryHandler(reader).Handle(ctx, q)

		assert.ErrorIs(t, err, boom)
	})
}
