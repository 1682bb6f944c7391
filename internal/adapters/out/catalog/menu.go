package catalog

import (
	"errors"
	"fmt"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/pkg/errs"
)

type MenuOptionConfig struct {
	ID              string       `mapstructure:"id"`
	Name            string       `mapstructure:"name"`
	PriceAdjustment kernel.Money `mapstructure:"price_adjustment"`
}

type MenuGroupConfig struct {
	ID            string             `mapstructure:"id"`
	Name          string             `mapstructure:"name"`
	Required      bool               `mapstructure:"required"`
	MaxSelections int                `mapstructure:"max_selections"`
	Options       []MenuOptionConfig `mapstructure:"options"`
}

// MenuItemConfig seeds a menu item. Vendor defaults to the restaurant and
// Available defaults to true.
type MenuItemConfig struct {
	ID         string            `mapstructure:"id"`
	Restaurant string            `mapstructure:"restaurant"`
	Vendor     string            `mapstructure:"vendor"`
	Category   string            `mapstructure:"category"`
	Name       string            `mapstructure:"name"`
	Price      kernel.Money      `mapstructure:"price"`
	Available  *bool             `mapstructure:"available"`
	Groups     []MenuGroupConfig `mapstructure:"groups"`
}

func (c MenuItemConfig) item() (menu.Item, error) {
	id, err := kernel.UUIDFromString(c.ID)
	if err != nil {
		return menu.Item{}, err
	}
	restaurant, err := kernel.UUIDFromString(c.Restaurant)
	if err != nil {
		return menu.Item{}, fmt.Errorf("restaurant: %w", err)
	}
	vendor := restaurant
	if c.Vendor != "" {
		if vendor, err = kernel.UUIDFromString(c.Vendor); err != nil {
			return menu.Item{}, fmt.Errorf("vendor: %w", err)
		}
	}
	if c.Name == "" {
		return menu.Item{}, errs.NewValueIsRequiredError("name")
	}
	if c.Price.IsNegative() {
		return menu.Item{}, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", c.Price))
	}

	item := menu.Item{
		ID:            id,
		RestaurantRef: restaurant,
		VendorRef:     vendor,
		Category:      c.Category,
		Name:          c.Name,
		Price:         c.Price,
		Available:     c.Available == nil || *c.Available,
	}
	for _, g := range c.Groups {
		group := menu.ModifierGroup{ID: g.ID, Name: g.Name, Required: g.Required, MaxSelections: g.MaxSelections}
		for _, o := range g.Options {
			group.Options = append(group.Options, menu.Option{ID: o.ID, Name: o.Name, PriceAdjustment: o.PriceAdjustment})
		}
		item.Groups = append(item.Groups, group)
	}
	return item, nil
}

// MenuItems converts the menu section. Item ids must be unique.
func (c Config) MenuItems() ([]menu.Item, error) {
	items := make([]menu.Item, 0, len(c.Menu))
	seen := make(map[kernel.UUID]struct{}, len(c.Menu))
	var err error
	for idx, mc := range c.Menu {
		item, e := mc.item()
		if e != nil {
			err = errors.Join(err, fmt.Errorf("menu item %d: %w", idx, e))
			continue
		}
		if _, dup := seen[item.ID]; dup {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("menu item",
				fmt.Errorf("%s is listed twice", item.ID)))
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}
