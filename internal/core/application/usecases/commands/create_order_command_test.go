package commands_test

import (
	"testing"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	lines := []commands.OrderLine{{MenuItemRef: burgerRef, Quantity: 2, OptionIDs: []string{"cheese"}}}

	cmd, err := commands.NewCreateOrderCommand(id, kernel.NewUUID(), restaurantID, lines, sampleAddress(t), " pm_1 ",
		commands.WithPromoCodes(" welcome ", "WELCOME", ""), commands.WithDistance(1800))

	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "pm_1", cmd.PaymentMethodRef())
	assert.Equal(t, []string{"WELCOME"}, cmd.PromoCodes())
	assert.Equal(t, 1800, cmd.DistanceMeters())
	assert.Equal(t, lines, cmd.Lines())
}

func TestNewCreateOrderCommand_DoesNotShareLines(t *testing.T) {
	lines := []commands.OrderLine{{MenuItemRef: burgerRef, Quantity: 1, OptionIDs: []string{"cheese"}}}
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), restaurantID, lines, sampleAddress(t), "pm_1")
	require.NoError(t, err)

	lines[0].OptionIDs[0] = "bacon"
	got := cmd.Lines()
	got[0].Quantity = 99

	assert.Equal(t, []string{"cheese"}, cmd.Lines()[0].OptionIDs)
	assert.Equal(t, 1, cmd.Lines()[0].Quantity)
}

func TestNewCreateOrderCommand_EmptyItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), restaurantID, nil, sampleAddress(t), "pm_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_NonPositiveQuantity(t *testing.T) {
	lines := []commands.OrderLine{{MenuItemRef: burgerRef, Quantity: 0}, {MenuItemRef: friesRef, Quantity: -2}}
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), restaurantID, lines, sampleAddress(t), "pm_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "item 0 quantity")
	assert.Contains(t, err.Error(), "item 1 quantity")
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, kernel.UUID{}, restaurantID,
		[]commands.OrderLine{{MenuItemRef: burgerRef, Quantity: 1}}, kernel.Address{}, "",
		commands.WithDistance(-1))
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, kernel.ErrAddressIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
