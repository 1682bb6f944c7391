// Package menurepo reads menu items for order placement from menu_items.
// Modifier groups are stored as a JSON document on the item row.
package menurepo

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuItemDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID     uuid.UUID  `gorm:"type:uuid;not null"`
	Category     string     `gorm:"type:varchar(64)"`
	Name         string     `gorm:"not null"`
	Price        int64      `gorm:"not null"`
	Available    bool       `gorm:"not null"`
	Groups       []GroupDTO `gorm:"type:jsonb;serializer:json"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

type GroupDTO struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Required      bool        `json:"required,omitempty"`
	MaxSelections int         `json:"maxSelections,omitempty"`
	Options       []OptionDTO `json:"options"`
}

type OptionDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PriceAdjustment int64  `json:"priceAdjustment"`
}

// GormMenuCatalog implements ports.MenuCatalog using GORM.
type GormMenuCatalog struct {
	db *gorm.DB
}

var _ ports.MenuCatalog = (*GormMenuCatalog)(nil)

func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

func (c *GormMenuCatalog) Get(ctx context.Context, menuItemRef kernel.UUID) (menu.Item, error) {
	if err := menuItemRef.Validate(); err != nil {
		return menu.Item{}, err
	}

	var dto MenuItemDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", menuItemRef.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return menu.Item{}, errs.NewObjectNotFoundError("menu item", menuItemRef.String())
		}
		return menu.Item{}, err
	}

	return toDomain(dto)
}

// Save inserts or replaces a menu item. Used by seeding and tests; the menu
// itself is owned by the catalog service.
func (c *GormMenuCatalog) Save(ctx context.Context, item menu.Item) error {
	dto := fromDomain(item)
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}

func fromDomain(item menu.Item) MenuItemDTO {
	groups := make([]GroupDTO, 0, len(item.Groups))
	for _, g := range item.Groups {
		options := make([]OptionDTO, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, OptionDTO{ID: o.ID, Name: o.Name, PriceAdjustment: o.PriceAdjustment.Minor()})
		}
		groups = append(groups, GroupDTO{
			ID:            g.ID,
			Name:          g.Name,
			Required:      g.Required,
			MaxSelections: g.MaxSelections,
			Options:       options,
		})
	}

	return MenuItemDTO{
		ID:           item.ID.Bytes(),
		RestaurantID: item.RestaurantRef.Bytes(),
		VendorID:     item.VendorRef.Bytes(),
		Category:     item.Category,
		Name:         item.Name,
		Price:        item.Price.Minor(),
		Available:    item.Available,
		Groups:       groups,
	}
}

func toDomain(dto MenuItemDTO) (menu.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return menu.Item{}, err
	}
	restaurant, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return menu.Item{}, err
	}
	vendor, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return menu.Item{}, err
	}

	groups := make([]menu.ModifierGroup, 0, len(dto.Groups))
	for _, g := range dto.Groups {
		options := make([]menu.Option, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, menu.Option{ID: o.ID, Name: o.Name, PriceAdjustment: kernel.NewMoney(o.PriceAdjustment)})
		}
		groups = append(groups, menu.ModifierGroup{
			ID:            g.ID,
			Name:          g.Name,
			Required:      g.Required,
			MaxSelections: g.MaxSelections,
			Options:       options,
		})
	}

	return menu.Item{
		ID:            id,
		RestaurantRef: restaurant,
		VendorRef:     vendor,
		Category:      dto.Category,
		Name:          dto.Name,
		Price:         kernel.NewMoney(dto.Price),
		Available:     dto.Available,
		Groups:        groups,
	}, nil
}
