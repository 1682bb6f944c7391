package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewExpireUnpaidOrdersCommand(t *testing.T) {
	asOf := placedAt.Add(time.Hour)

	cmd, err := commands.NewExpireUnpaidOrdersCommand(asOf, 15*time.Minute, 50)
	require.NoError(t, err)
	assert.Equal(t, asOf.Add(-15*time.Minute), cmd.Cutoff())

	_, err = commands.NewExpireUnpaidOrdersCommand(asOf, 0, 50)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = commands.NewExpireUnpaidOrdersCommand(time.Time{}, time.Minute, 1)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestExpireUnpaidOrdersCommandHandler_Handle(t *testing.T) {
	asOf := placedAt.Add(time.Hour)
	cmd, err := commands.NewExpireUnpaidOrdersCommand(asOf, 30*time.Minute, 10)
	require.NoError(t, err)

	stale := placedOrder(t)
	paidMeanwhile := placedOrder(t)
	paidCopy := copyOf(t, paidMeanwhile)
	require.NoError(t, paidCopy.RecordPayment(order.PaymentResult{
		Status: order.PaymentPaid, Actor: order.Actor{ID: "psp", Role: order.RolePayment},
	}))
	broken := placedOrder(t)

	repo := new(MockOrderRepository)
	repo.On("ListUnpaidPlacedBefore", mock.Anything, cmd.Cutoff(), 10).
		Return([]*order.Order{stale, paidMeanwhile, broken}, nil).Once()
	repo.On("Get", mock.Anything, stale.ID()).Return(stale, nil).Once()
	repo.On("Update", mock.Anything, stale, stale.Version()).Return(nil).Once()
	repo.On("Get", mock.Anything, paidMeanwhile.ID()).Return(paidCopy, nil).Once()
	repo.On("Get", mock.Anything, broken.ID()).Return(broken, nil).Once()
	repo.On("Update", mock.Anything, broken, broken.Version()).Return(errors.New("disk full")).Once()

	h := commands.NewExpireUnpaidOrdersCommandHandler(factoryFor(happyUoW(repo)), fastRetry(), discardLogger())
	expired, err := h.Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, expired)

	assert.Equal(t, order.Cancelled, stale.Status())
	assert.Equal(t, commands.PaymentTimeoutReason, stale.CancellationReason())
	assert.Equal(t, &order.SystemActor, stale.CancelledBy())
	assert.Equal(t, order.Pending, paidCopy.Status())
	repo.AssertExpectations(t)
}

func TestExpireUnpaidOrdersCommandHandler_Handle_ListError(t *testing.T) {
	cmd, _ := commands.NewExpireUnpaidOrdersCommand(placedAt, time.Minute, 10)
	repo := new(MockOrderRepository)
	repo.On("ListUnpaidPlacedBefore", mock.Anything, mock.Anything, 10).Return(nil, errors.New("db down")).Once()

	h := commands.NewExpireUnpaidOrdersCommandHandler(factoryFor(happyUoW(repo)), fastRetry(), discardLogger())
	expired, err := h.Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.Zero(t, expired)
}
