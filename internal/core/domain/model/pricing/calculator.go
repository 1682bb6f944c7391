package pricing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// Line is one priced order line: a menu item with its chosen modifier
// adjustments and a quantity.
type Line struct {
	UnitPrice           kernel.Money
	ModifierAdjustments []kernel.Money
	Quantity            int
}

// Total returns (unitPrice + Σ adjustments) × quantity.
func (l Line) Total() kernel.Money {
	unit := l.UnitPrice
	for _, adj := range l.ModifierAdjustments {
		unit = unit.Add(adj)
	}
	return unit.Mul(l.Quantity)
}

// Validate enforces quantity > 0 and non-negative prices.
func (l Line) Validate() error {
	var problems []error
	if l.Quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", l.Quantity)))
	}
	if l.UnitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unit price", fmt.Errorf("%s is negative", l.UnitPrice)))
	}
	for _, adj := range l.ModifierAdjustments {
		if adj.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"modifier adjustment", fmt.Errorf("%s is negative", adj)))
		}
	}
	return errors.Join(problems...)
}

// QuoteInput carries everything the calculator needs; nothing is read from globals.
type QuoteInput struct {
	Lines          []Line
	Promotions     []Promotion
	Tariff         Tariff
	Tip            kernel.Money
	DistanceMeters int
}

// AppliedDiscount is the amount one promotion actually took off the subtotal.
type AppliedDiscount struct {
	PromotionID string
	Code        string
	Title       string
	Amount      kernel.Money
}

// Breakdown is the full result of pricing an order.
type Breakdown struct {
	LineTotals  []kernel.Money
	Subtotal    kernel.Money
	Discount    kernel.Money
	Discounts   []AppliedDiscount
	Taxes       kernel.Money
	DeliveryFee kernel.Money
	ServiceFee  kernel.Money
	Tip         kernel.Money
	Total       kernel.Money
}

// Quote prices an order:
//  1. subtotal = Σ line totals
//  2. promotions in createdAt order, each capped at its maximum and at the remaining subtotal
//  3. taxes = subtotal × taxRate
//  4. delivery and service fees from the tariff's fee rules
//  5. total = subtotal + taxes + deliveryFee + serviceFee + tip − discount
func Quote(in QuoteInput) (Breakdown, error) {
	if len(in.Lines) == 0 {
		return Breakdown{}, errs.NewValueIsRequiredError("items")
	}
	if in.Tip.IsNegative() {
		return Breakdown{}, errs.NewValueIsInvalidErrorWithCause("tip", fmt.Errorf("%s is negative", in.Tip))
	}
	if in.DistanceMeters < 0 {
		return Breakdown{}, errs.NewValueIsInvalidErrorWithCause(
			"distance", fmt.Errorf("%d is negative", in.DistanceMeters))
	}

	b := Breakdown{LineTotals: make([]kernel.Money, 0, len(in.Lines)), Tip: in.Tip}
	for i, line := range in.Lines {
		if err := line.Validate(); err != nil {
			return Breakdown{}, fmt.Errorf("item %d: %w", i, err)
		}
		total := line.Total()
		b.LineTotals = append(b.LineTotals, total)
		b.Subtotal = b.Subtotal.Add(total)
	}

	discounts, err := ApplyPromotions(b.Subtotal, in.Promotions)
	if err != nil {
		return Breakdown{}, err
	}
	b.Discounts = discounts
	for _, d := range discounts {
		b.Discount = b.Discount.Add(d.Amount)
	}

	b.Taxes = b.Subtotal.MulRate(in.Tariff.TaxRate)
	b.DeliveryFee = in.Tariff.DeliveryFee.Fee(b.Subtotal, in.DistanceMeters)
	b.ServiceFee = in.Tariff.ServiceFee.Fee(b.Subtotal, in.DistanceMeters)
	b.Total = GrandTotal(b.Subtotal, b.Taxes, b.DeliveryFee, b.ServiceFee, b.Tip, b.Discount)
	return b, nil
}

// GrandTotal is the single definition of the order total formula.
func GrandTotal(subtotal, taxes, deliveryFee, serviceFee, tip, discount kernel.Money) kernel.Money {
	return subtotal.Add(taxes).Add(deliveryFee).Add(serviceFee).Add(tip).Sub(discount)
}

// ApplyPromotions applies promotions earliest-created first (ties broken by ID).
// Each discount is capped at the promotion's maximum and at what is left of
// the subtotal, so the combined discount never exceeds the subtotal.
// Promotions that are ineligible or end up worth nothing are not listed.
func ApplyPromotions(subtotal kernel.Money, promotions []Promotion) ([]AppliedDiscount, error) {
	ordered := slices.Clone(promotions)
	slices.SortStableFunc(ordered, func(a, b Promotion) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	applied := make([]AppliedDiscount, 0, len(ordered))
	seen := make(map[string]struct{}, len(ordered))
	remaining := subtotal
	for _, p := range ordered {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		amount := p.discountOn(subtotal).Min(remaining)
		if amount <= 0 {
			continue
		}
		remaining = remaining.Sub(amount)
		applied = append(applied, AppliedDiscount{
			PromotionID: p.ID,
			Code:        p.Code,
			Title:       p.Title,
			Amount:      amount,
		})
	}
	return applied, nil
}

// SettleInput holds the figures frozen at delivery. DriverBonus and
// DriverPenalty come already resolved from the incentive collaborator.
type SettleInput struct {
	Subtotal       kernel.Money
	DeliveryFee    kernel.Money
	Tip            kernel.Money
	CommissionRate kernel.Rate
	DriverBonus    kernel.Money
	DriverPenalty  kernel.Money
	HasDriver      bool
}

// Split is the three-way division of an order's money.
// DriverEarnings is nil when no driver is attached.
type Split struct {
	PlatformCommission kernel.Money
	RestaurantEarnings kernel.Money
	DriverEarnings     *kernel.Money
}

// Settle computes the commission split:
//
//	platformCommission = subtotal × commissionRate
//	restaurantEarnings = subtotal − platformCommission
//	driverEarnings     = deliveryFee + tip + bonus − penalty, never below zero
func Settle(in SettleInput) (Split, error) {
	var problems []error
	for name, m := range map[string]kernel.Money{
		"subtotal":       in.Subtotal,
		"delivery fee":   in.DeliveryFee,
		"tip":            in.Tip,
		"driver bonus":   in.DriverBonus,
		"driver penalty": in.DriverPenalty,
	} {
		if m.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", m)))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return Split{}, err
	}

	commission := in.Subtotal.MulRate(in.CommissionRate)
	split := Split{
		PlatformCommission: commission,
		RestaurantEarnings: in.Subtotal.Sub(commission),
	}
	if in.HasDriver {
		earnings := in.DeliveryFee.Add(in.Tip).Add(in.DriverBonus).Sub(in.DriverPenalty).Max(kernel.Zero)
		split.DriverEarnings = &earnings
	}
	return split, nil
}
