// Package menu holds the read-only view of a restaurant menu item that order
// placement prices against. Menus are owned by the catalog, not the engine.
package menu

import (
	"fmt"
	"slices"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
)

type Option struct {
	ID              string
	Name            string
	PriceAdjustment kernel.Money
}

// ModifierGroup is a set of options such as "Size" or "Toppings".
// MaxSelections of zero means unlimited.
type ModifierGroup struct {
	ID            string
	Name          string
	Required      bool
	MaxSelections int
	Options       []Option
}

type Item struct {
	ID            kernel.UUID
	RestaurantRef kernel.UUID
	VendorRef     kernel.UUID
	Category      string
	Name          string
	Price         kernel.Money
	Available     bool
	Groups        []ModifierGroup
}

// Select resolves the chosen option ids into priced modifiers, grouped in
// menu order. Unknown or repeated options, missing required groups and
// groups with too many choices are validation errors.
func (i Item) Select(optionIDs []string) ([]order.SelectedModifier, error) {
	chosen := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		if chosen[id] {
			return nil, errs.NewValueIsInvalidErrorWithCause("modifier option", fmt.Errorf("%q selected twice", id))
		}
		chosen[id] = true
	}

	var selected []order.SelectedModifier
	for _, g := range i.Groups {
		var picked []order.ModifierOption
		for _, opt := range g.Options {
			if !chosen[opt.ID] {
				continue
			}
			delete(chosen, opt.ID)
			picked = append(picked, order.ModifierOption{ID: opt.ID, Name: opt.Name, PriceAdjustment: opt.PriceAdjustment})
		}
		if g.Required && len(picked) == 0 {
			return nil, errs.NewValueIsRequiredError(fmt.Sprintf("modifier group %s of %s", g.Name, i.Name))
		}
		if g.MaxSelections > 0 && len(picked) > g.MaxSelections {
			return nil, errs.NewValueIsOutOfRangeError("modifier group "+g.Name, len(picked), 0, g.MaxSelections)
		}
		if len(picked) > 0 {
			selected = append(selected, order.SelectedModifier{GroupID: g.ID, GroupName: g.Name, Options: picked})
		}
	}

	if len(chosen) > 0 {
		unknown := make([]string, 0, len(chosen))
		for id := range chosen {
			unknown = append(unknown, id)
		}
		slices.Sort(unknown)
		return nil, errs.NewValueIsInvalidErrorWithCause("modifier option",
			fmt.Errorf("unknown options %v for menu item %s", unknown, i.ID))
	}
	return selected, nil
}
