package memory

import (
	"context"
	"sync"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// MenuCatalog serves menu items registered with Put.
type MenuCatalog struct {
	mu    sync.RWMutex
	items map[kernel.UUID]menu.Item
}

var _ ports.MenuCatalog = (*MenuCatalog)(nil)

func NewMenuCatalog(items ...menu.Item) *MenuCatalog {
	c := &MenuCatalog{items: make(map[kernel.UUID]menu.Item, len(items))}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *MenuCatalog) Put(item menu.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.ID] = item
}

func (c *MenuCatalog) Get(_ context.Context, menuItemRef kernel.UUID) (menu.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[menuItemRef]
	if !ok {
		return menu.Item{}, errs.NewObjectNotFoundError("menu item", menuItemRef.String())
	}
	return item, nil
}
