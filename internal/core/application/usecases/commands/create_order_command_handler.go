package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// maxOrderNumberAttempts bounds how often a colliding order number is regenerated.
const maxOrderNumberAttempts = 3

// ErrOrderNumberExhausted is returned when every generated order number collided.
var ErrOrderNumberExhausted = errors.New("could not generate a unique order number")

// PlacementSettings are the deployment-wide defaults applied to new orders.
type PlacementSettings struct {
	Currency string        `mapstructure:"currency"`
	ETA      time.Duration `mapstructure:"eta"`
}

// CreateOrderCommandHandler handles the business logic for order creation.
// It resolves every line against the menu, the vendor's tariff and the
// promotion codes, prices the order and stores it in pending_payment.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, menus, tariffs, promotions, numbers, settings)
//	o, err := handler.Handle(ctx, cmd)
//	if errs.IsValidation(err) {
//	    // empty items, bad quantity, unknown modifier option, ...
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	menus      ports.MenuCatalog
	tariffs    ports.TariffProvider
	promotions ports.PromotionCatalog
	numbers    ports.OrderNumberGenerator
	settings   PlacementSettings
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	menus ports.MenuCatalog,
	tariffs ports.TariffProvider,
	promotions ports.PromotionCatalog,
	numbers ports.OrderNumberGenerator,
	settings PlacementSettings,
) CreateOrderCommandHandler {
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		menus:      menus,
		tariffs:    tariffs,
		promotions: promotions,
		numbers:    numbers,
		settings:   settings,
		now:        time.Now,
	}
}

// Handle places the order. Validation failures are returned before anything
// is written. An order number that is already taken is regenerated a bounded
// number of times.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "CreateOrder", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	now := h.now().UTC()
	placement, err := h.placement(ctx, cmd, now)
	if err != nil {
		return nil, err
	}

	for range maxOrderNumberAttempts {
		placement.OrderNumber = h.numbers.Generate(now)

		o, buildErr := order.NewOrder(placement)
		if buildErr != nil {
			return nil, buildErr
		}

		err = h.persist(ctx, o)
		if errors.Is(err, ports.ErrOrderNumberTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return o, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrOrderNumberExhausted, maxOrderNumberAttempts)
}

func (h CreateOrderCommandHandler) placement(
	ctx context.Context,
	cmd CreateOrderCommand,
	now time.Time,
) (order.Placement, error) {
	var (
		items  = make([]order.Item, 0, len(cmd.Lines()))
		vendor kernel.UUID
		cat    string
	)

	for idx, line := range cmd.Lines() {
		menuItem, err := h.menus.Get(ctx, line.MenuItemRef)
		if err != nil {
			return order.Placement{}, fmt.Errorf("item %d: %w", idx, err)
		}
		if err = checkMenuItem(menuItem, cmd.RestaurantRef()); err != nil {
			return order.Placement{}, fmt.Errorf("item %d: %w", idx, err)
		}

		modifiers, err := menuItem.Select(line.OptionIDs)
		if err != nil {
			return order.Placement{}, fmt.Errorf("item %d: %w", idx, err)
		}

		item, err := order.NewItem(menuItem.ID, menuItem.Name, line.Quantity, menuItem.Price, modifiers, line.SpecialInstructions)
		if err != nil {
			return order.Placement{}, fmt.Errorf("item %d: %w", idx, err)
		}
		items = append(items, item)

		if idx == 0 {
			vendor, cat = menuItem.VendorRef, menuItem.Category
		}
	}

	tariff, err := h.tariffs.Tariff(ctx, vendor, cat)
	if err != nil {
		return order.Placement{}, fmt.Errorf("resolve tariff: %w", err)
	}

	promotions, err := h.promotions.Resolve(ctx, cmd.PromoCodes(), vendor, now)
	if err != nil {
		return order.Placement{}, err
	}

	placement := order.Placement{
		ID:               cmd.OrderID(),
		CustomerRef:      cmd.CustomerRef(),
		RestaurantRef:    cmd.RestaurantRef(),
		VendorRef:        vendor,
		Category:         cat,
		PaymentMethodRef: cmd.PaymentMethodRef(),
		Currency:         h.settings.Currency,
		Items:            items,
		Address:          cmd.Address(),
		Tariff:           tariff,
		Promotions:       promotions,
		DistanceMeters:   cmd.DistanceMeters(),
		PlacedAt:         now,
	}
	if h.settings.ETA > 0 {
		eta := now.Add(h.settings.ETA)
		placement.EstimatedDeliveryTime = &eta
	}
	return placement, nil
}

func checkMenuItem(item menu.Item, restaurantRef kernel.UUID) error {
	if !item.RestaurantRef.IsEqual(restaurantRef) {
		return errs.NewValueIsInvalidErrorWithCause("menu item",
			fmt.Errorf("%s belongs to restaurant %s, not %s", item.ID, item.RestaurantRef, restaurantRef))
	}
	if !item.Available {
		return errs.NewValueIsInvalidErrorWithCause("menu item", fmt.Errorf("%s is not available", item.Name))
	}
	return nil
}

func (h CreateOrderCommandHandler) persist(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
