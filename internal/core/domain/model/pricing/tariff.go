package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// Tariff is the commission and fee configuration that applies to one vendor
// and/or category. It is owned by configuration, not by the engine.
type Tariff struct {
	TaxRate        kernel.Rate
	CommissionRate kernel.Rate
	DeliveryFee    FeeRule
	ServiceFee     FeeRule
}

// FeeRule describes a fee as configuration. All parts are optional and add up:
//
//	fee = Flat + subtotal × Percent + PerKm × km (+ SmallOrderSurcharge below SmallOrderBelow)
//
// then clamped to [Min, Max] (zero means unbounded). A subtotal at or above
// FreeAbove waives the fee entirely.
type FeeRule struct {
	Flat                kernel.Money
	Percent             kernel.Rate
	PerKm               kernel.Money
	FreeAbove           kernel.Money
	SmallOrderBelow     kernel.Money
	SmallOrderSurcharge kernel.Money
	Min                 kernel.Money
	Max                 kernel.Money
}

// Fee evaluates the rule for a subtotal and delivery distance.
func (r FeeRule) Fee(subtotal kernel.Money, distanceMeters int) kernel.Money {
	if r.FreeAbove > 0 && subtotal >= r.FreeAbove {
		return kernel.Zero
	}

	fee := r.Flat.Add(subtotal.MulRate(r.Percent))
	if r.PerKm > 0 && distanceMeters > 0 {
		km := decimal.NewFromInt(int64(distanceMeters)).Div(decimal.NewFromInt(1000))
		perKm := decimal.NewFromInt(r.PerKm.Minor()).Mul(km).Round(0)
		fee = fee.Add(kernel.NewMoney(perKm.IntPart()))
	}
	if r.SmallOrderBelow > 0 && subtotal < r.SmallOrderBelow {
		fee = fee.Add(r.SmallOrderSurcharge)
	}
	if r.Min > 0 {
		fee = fee.Max(r.Min)
	}
	if r.Max > 0 {
		fee = fee.Min(r.Max)
	}
	return fee
}

// PromotionKind selects how a promotion's discount is computed.
type PromotionKind string

const (
	PromotionPercentage PromotionKind = "percentage"
	PromotionFixed      PromotionKind = "fixed"
)

// Promotion is a discount offered on an order's subtotal.
type Promotion struct {
	ID          string
	Code        string
	Title       string
	Kind        PromotionKind
	Percent     kernel.Rate
	Amount      kernel.Money
	MaxDiscount kernel.Money
	MinSubtotal kernel.Money
	CreatedAt   time.Time
}

// Validate checks the promotion's shape.
func (p Promotion) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errs.NewValueIsRequiredError("promotion id")
	}
	switch p.Kind {
	case PromotionPercentage:
	case PromotionFixed:
		if p.Amount.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("promotion amount", fmt.Errorf("%s is negative", p.Amount))
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("promotion kind", fmt.Errorf("%q is not supported", p.Kind))
	}
	if p.MaxDiscount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("promotion max discount", fmt.Errorf("%s is negative", p.MaxDiscount))
	}
	return nil
}

// discountOn returns the uncapped-by-remaining discount for a subtotal.
func (p Promotion) discountOn(subtotal kernel.Money) kernel.Money {
	if subtotal < p.MinSubtotal {
		return kernel.Zero
	}

	var amount kernel.Money
	switch p.Kind {
	case PromotionPercentage:
		amount = subtotal.MulRate(p.Percent)
	case PromotionFixed:
		amount = p.Amount
	}
	if p.MaxDiscount > 0 {
		amount = amount.Min(p.MaxDiscount)
	}
	return amount
}
