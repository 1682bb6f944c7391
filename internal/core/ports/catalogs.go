package ports

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/domain/model/pricing"
)

// TariffProvider resolves the commission and fee configuration for a vendor
// and category: vendor+category, then vendor, then category, then the default.
type TariffProvider interface {
	Tariff(ctx context.Context, vendorRef kernel.UUID, category string) (pricing.Tariff, error)
}

// PromotionCatalog turns promo codes into promotions valid for a vendor at a time.
// Unknown or expired codes are validation errors.
type PromotionCatalog interface {
	Resolve(ctx context.Context, codes []string, vendorRef kernel.UUID, at time.Time) ([]pricing.Promotion, error)
}

// MenuCatalog looks up menu items. Missing items are errs.ObjectNotFoundError.
type MenuCatalog interface {
	Get(ctx context.Context, menuItemRef kernel.UUID) (menu.Item, error)
}

// Incentive is the driver bonus and penalty resolved for one delivery.
type Incentive struct {
	Bonus   kernel.Money
	Penalty kernel.Money
}

// DriverIncentives is the external driver-incentive collaborator.
type DriverIncentives interface {
	Resolve(ctx context.Context, driverRef kernel.UUID, o *order.Order, deliveredAt time.Time) (Incentive, error)
}

// NotificationPublisher hands StatusChanged events to the notification dispatcher.
type NotificationPublisher interface {
	Publish(ctx context.Context, events []order.StatusChanged) error
}

// OrderNumberGenerator produces human-legible, externally displayable order numbers.
// Uniqueness is enforced by the store at insert time.
type OrderNumberGenerator interface {
	Generate(at time.Time) string
}
