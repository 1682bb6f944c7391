package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// OrderLine is one requested menu item with the ids of the chosen modifier options.
type OrderLine struct {
	MenuItemRef         kernel.UUID
	Quantity            int
	OptionIDs           []string
	SpecialInstructions string
}

func (l OrderLine) validate(idx int) error {
	if err := l.MenuItemRef.Validate(); err != nil {
		return fmt.Errorf("item %d: %w", idx, err)
	}
	if l.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("item %d quantity", idx),
			fmt.Errorf("%d is not positive", l.Quantity))
	}
	return nil
}

// CreateOrderCommand represents a customer's request to place an order.
// Prices never come from the client: they are resolved from the menu and the
// vendor's tariff when the command is handled.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, restaurantID,
//	    []OrderLine{{MenuItemRef: burgerID, Quantity: 2, OptionIDs: []string{"extra-cheese"}}},
//	    address, "pm_card_visa",
//	    WithPromoCodes("WELCOME10"), WithDistance(2400),
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s awaits payment of %s", o.OrderNumber(), o.TotalAmount())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerRef      kernel.UUID
	restaurantRef    kernel.UUID
	lines            []OrderLine
	address          kernel.Address
	paymentMethodRef string
	promoCodes       []string
	distanceMeters   int

	guard guard.ConstructorGuard
}

// CreateOrderOption sets an optional field of a CreateOrderCommand.
type CreateOrderOption func(*CreateOrderCommand) error

// WithPromoCodes attaches promotion codes. Blank and repeated codes are dropped.
func WithPromoCodes(codes ...string) CreateOrderOption {
	return func(c *CreateOrderCommand) error {
		for _, code := range codes {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code != "" && !slices.Contains(c.promoCodes, code) {
				c.promoCodes = append(c.promoCodes, code)
			}
		}
		return nil
	}
}

// WithDistance sets the delivery distance used by distance-based fees.
func WithDistance(meters int) CreateOrderOption {
	return func(c *CreateOrderCommand) error {
		if meters < 0 {
			return errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%d meters is negative", meters))
		}
		c.distanceMeters = meters
		return nil
	}
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates the references, that there is at least one line and that every
// quantity is positive. Returns every validation failure joined.
func NewCreateOrderCommand(
	orderID, customerRef, restaurantRef kernel.UUID,
	lines []OrderLine,
	address kernel.Address,
	paymentMethodRef string,
	opts ...CreateOrderOption,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	errList := []error{
		cmd.setOrderID(orderID),
		cmd.setCustomerRef(customerRef),
		cmd.setRestaurantRef(restaurantRef),
		cmd.setLines(lines),
		cmd.setAddress(address),
		cmd.setPaymentMethodRef(paymentMethodRef),
	}
	for _, opt := range opts {
		errList = append(errList, opt(&cmd))
	}
	if err := errors.Join(errList...); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerRef() kernel.UUID {
	return c.customerRef
}

func (c CreateOrderCommand) RestaurantRef() kernel.UUID {
	return c.restaurantRef
}

// Lines returns a copy of the requested lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	lines := make([]OrderLine, len(c.lines))
	for i, l := range c.lines {
		l.OptionIDs = slices.Clone(l.OptionIDs)
		lines[i] = l
	}
	return lines
}

func (c CreateOrderCommand) Address() kernel.Address {
	return c.address
}

func (c CreateOrderCommand) PaymentMethodRef() string {
	return c.paymentMethodRef
}

func (c CreateOrderCommand) PromoCodes() []string {
	return slices.Clone(c.promoCodes)
}

func (c CreateOrderCommand) DistanceMeters() int {
	return c.distanceMeters
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerRef(customerRef kernel.UUID) error {
	if err := customerRef.Validate(); err != nil {
		return fmt.Errorf("customer: %w", err)
	}

	c.customerRef = customerRef
	return nil
}

func (c *CreateOrderCommand) setRestaurantRef(restaurantRef kernel.UUID) error {
	if err := restaurantRef.Validate(); err != nil {
		return fmt.Errorf("restaurant: %w", err)
	}

	c.restaurantRef = restaurantRef
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	errList := make([]error, 0, len(lines))
	for idx, l := range lines {
		errList = append(errList, l.validate(idx))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.lines = make([]OrderLine, len(lines))
	for i, l := range lines {
		l.OptionIDs = slices.Clone(l.OptionIDs)
		l.SpecialInstructions = strings.TrimSpace(l.SpecialInstructions)
		c.lines[i] = l
	}
	return nil
}

func (c *CreateOrderCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setPaymentMethodRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("payment method")
	}

	c.paymentMethodRef = ref
	return nil
}
