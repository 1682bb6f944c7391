package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem")

// ModifierOption is one chosen option of a modifier group, e.g. "extra cheese".
type ModifierOption struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	PriceAdjustment kernel.Money `json:"priceAdjustment"`
}

// SelectedModifier is a modifier group with the options the customer picked.
type SelectedModifier struct {
	GroupID   string           `json:"groupId"`
	GroupName string           `json:"groupName"`
	Options   []ModifierOption `json:"options"`
}

func (m SelectedModifier) validate() error {
	var problems []error
	if strings.TrimSpace(m.GroupID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("modifier group id"))
	}
	for _, opt := range m.Options {
		if strings.TrimSpace(opt.ID) == "" {
			problems = append(problems, errs.NewValueIsRequiredError("modifier option id"))
		}
		if opt.PriceAdjustment.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"modifier option price",
				fmt.Errorf("%s of option %s is negative", opt.PriceAdjustment, opt.ID),
			))
		}
	}
	return errors.Join(problems...)
}

// Item is a line of an order. Its total is always derived from unit price,
// modifier adjustments and quantity; it is never authored directly.
type Item struct {
	menuItemRef  kernel.UUID
	name         string
	quantity     int
	unitPrice    kernel.Money
	modifiers    []SelectedModifier
	instructions string
	guard        guard.ConstructorGuard
}

func NewItem(
	menuItemRef kernel.UUID,
	name string,
	quantity int,
	unitPrice kernel.Money,
	modifiers []SelectedModifier,
	instructions string,
) (Item, error) {
	var problems []error
	if err := menuItemRef.Validate(); err != nil {
		problems = append(problems, err)
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unit price", fmt.Errorf("%s is negative", unitPrice)))
	}
	for _, m := range modifiers {
		problems = append(problems, m.validate())
	}
	if err := errors.Join(problems...); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemRef:  menuItemRef,
		name:         strings.TrimSpace(name),
		quantity:     quantity,
		unitPrice:    unitPrice,
		modifiers:    cloneModifiers(modifiers),
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (i Item) MenuItemRef() kernel.UUID { return i.menuItemRef }
func (i Item) Name() string { return i.name }
func (i Item) Quantity() int { return i.quantity }
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i Item) SpecialInstructions() string { return i.instructions }
func (i Item) Modifiers() []SelectedModifier { return cloneModifiers(i.modifiers) }

// Line converts the item into the calculator's input.
func (i Item) Line() pricing.Line {
	var adjustments []kernel.Money
	for _, m := range i.modifiers {
		for _, opt := range m.Options {
			adjustments = append(adjustments, opt.PriceAdjustment)
		}
	}
	return pricing.Line{UnitPrice: i.unitPrice, ModifierAdjustments: adjustments, Quantity: i.quantity}
}

// TotalPrice is (unitPrice + Σ modifier adjustments) × quantity.
func (i Item) TotalPrice() kernel.Money {
	return i.Line().Total()
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func cloneModifiers(in []SelectedModifier) []SelectedModifier {
	if len(in) == 0 {
		return nil
	}
	out := make([]SelectedModifier, len(in))
	for idx, m := range in {
		out[idx] = SelectedModifier{GroupID: m.GroupID, GroupName: m.GroupName, Options: slices.Clone(m.Options)}
	}
	return out
}

// AppliedPromotion records the discount one promotion contributed at placement.
type AppliedPromotion struct {
	PromotionID string       `json:"promotionId"`
	Code        string       `json:"code,omitempty"`
	Title       string       `json:"title"`
	Discount    kernel.Money `json:"discount"`
}
