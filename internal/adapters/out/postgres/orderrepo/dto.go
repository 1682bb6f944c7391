// Package orderrepo maps the order aggregate onto relational tables: one row in
// orders plus child rows for items, applied promotions and tracking updates.
package orderrepo

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Settlement and review columns stay NULL until
// the order is delivered or reviewed.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber      string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	RestaurantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID         uuid.UUID  `gorm:"type:uuid;not null"`
	DriverID         *uuid.UUID `gorm:"type:uuid;index"`
	Category         string     `gorm:"type:varchar(64)"`
	Status           int        `gorm:"not null;index:idx_orders_status_placed,priority:1"`
	PaymentStatus    int        `gorm:"not null"`
	PaymentMethodRef string     `gorm:"type:varchar(128)"`
	Currency         string     `gorm:"type:char(3);not null"`
	DistanceMeters   int
	Amounts          AmountsDTO  `gorm:"embedded"`
	Address          AddressDTO  `gorm:"embedded;embeddedPrefix:address_"`
	Timeline         TimelineDTO `gorm:"embedded"`

	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time

	CancellationReason string
	CancelledByID      *string `gorm:"type:varchar(128)"`
	CancelledByRole    *string `gorm:"type:varchar(32)"`

	Settlement SettlementDTO `gorm:"embedded;embeddedPrefix:settlement_"`
	Review     ReviewDTO     `gorm:"embedded;embeddedPrefix:review_"`

	Version int64 `gorm:"not null"`

	Items           []ItemDTO           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Promotions      []PromotionDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TrackingUpdates []TrackingUpdateDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AmountsDTO stores money in minor units.
type AmountsDTO struct {
	Subtotal    int64 `gorm:"not null"`
	Taxes       int64 `gorm:"not null"`
	DeliveryFee int64 `gorm:"not null"`
	ServiceFee  int64 `gorm:"not null"`
	Discount    int64 `gorm:"not null"`
	Tip         int64 `gorm:"not null"`
	TotalAmount int64 `gorm:"not null"`

	PostDeliveryTip int64 `gorm:"not null;default:0"`
}

type AddressDTO struct {
	Street       string `gorm:"not null"`
	City         string `gorm:"not null"`
	PostalCode   string
	Instructions string
	Lat          *float64
	Lon          *float64
}

type TimelineDTO struct {
	PlacedAt         time.Time `gorm:"not null;index:idx_orders_status_placed,priority:2"`
	PaidAt           *time.Time
	ConfirmedAt      *time.Time
	PreparingAt      *time.Time
	ReadyAt          *time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	DriverAssignedAt *time.Time
}

type SettlementDTO struct {
	PlatformCommission *int64
	RestaurantEarnings *int64
	DriverEarnings     *int64
	CommissionRate     decimal.NullDecimal `gorm:"type:numeric(6,4)"`
	DriverBonus        *int64
	DriverPenalty      *int64
	SettledAt          *time.Time
}

type ReviewDTO struct {
	CustomerRating   *int
	DriverRating     *int
	RestaurantRating *int
	Comment          string
	SubmittedAt      *time.Time
}

// ItemDTO is one order line. Items never change after placement.
type ItemDTO struct {
	OrderID             uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Position            int                      `gorm:"primaryKey"`
	MenuItemID          uuid.UUID                `gorm:"type:uuid;not null"`
	Name                string                   `gorm:"not null"`
	Quantity            int                      `gorm:"not null"`
	UnitPrice           int64                    `gorm:"not null"`
	Modifiers           []order.SelectedModifier `gorm:"type:jsonb;serializer:json"`
	SpecialInstructions string
	TotalPrice          int64 `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

type PromotionDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position    int       `gorm:"primaryKey"`
	PromotionID string    `gorm:"type:varchar(64);not null"`
	Code        string    `gorm:"type:varchar(64)"`
	Title       string
	Discount    int64 `gorm:"not null"`
}

func (PromotionDTO) TableName() string {
	return "order_promotions"
}

// TrackingUpdateDTO rows are only ever inserted.
type TrackingUpdateDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	Status    string    `gorm:"type:varchar(32);not null"`
	Timestamp time.Time `gorm:"not null"`
	Message   string
	Lat       *float64
	Lon       *float64
}

func (TrackingUpdateDTO) TableName() string {
	return "order_tracking_updates"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	id := s.ID.Bytes()

	dto := OrderDTO{
		ID:               id,
		OrderNumber:      s.OrderNumber,
		CustomerID:       s.CustomerRef.Bytes(),
		RestaurantID:     s.RestaurantRef.Bytes(),
		VendorID:         s.VendorRef.Bytes(),
		DriverID:         rawRef(s.DriverRef),
		Category:         s.Category,
		Status:           int(s.Status),
		PaymentStatus:    int(s.PaymentStatus),
		PaymentMethodRef: s.PaymentMethodRef,
		Currency:         s.Currency,
		DistanceMeters:   s.DistanceMeters,
		Amounts: AmountsDTO{
			Subtotal:    s.Subtotal.Minor(),
			Taxes:       s.Taxes.Minor(),
			DeliveryFee: s.DeliveryFee.Minor(),
			ServiceFee:  s.ServiceFee.Minor(),
			Discount:    s.Discount.Minor(),
			Tip:         s.Tip.Minor(),
			TotalAmount: s.Total.Minor(),

			PostDeliveryTip: s.PostDeliveryTip.Minor(),
		},
		Address: AddressDTO{
			Street:       s.DeliveryAddress.Street(),
			City:         s.DeliveryAddress.City(),
			PostalCode:   s.DeliveryAddress.PostalCode(),
			Instructions: s.DeliveryAddress.Instructions(),
		},
		Timeline: TimelineDTO{
			PlacedAt:         s.PlacedAt,
			PaidAt:           s.PaidAt,
			ConfirmedAt:      s.ConfirmedAt,
			PreparingAt:      s.PreparingAt,
			ReadyAt:          s.ReadyAt,
			PickedUpAt:       s.PickedUpAt,
			DeliveredAt:      s.DeliveredAt,
			CancelledAt:      s.CancelledAt,
			DriverAssignedAt: s.DriverAssignedAt,
		},
		EstimatedDeliveryTime: s.EstimatedDeliveryTime,
		ActualDeliveryTime:    s.ActualDeliveryTime,
		CancellationReason:    s.CancellationReason,
		Version:               s.Version,
	}
	dto.Address.Lat, dto.Address.Lon = coordinates(s.DeliveryAddress.Point())

	if s.CancelledBy != nil {
		actorID, role := s.CancelledBy.ID, string(s.CancelledBy.Role)
		dto.CancelledByID, dto.CancelledByRole = &actorID, &role
	}

	if st := s.Settlement; st != nil {
		dto.Settlement = SettlementDTO{
			PlatformCommission: minor(st.PlatformCommission),
			RestaurantEarnings: minor(st.RestaurantEarnings),
			CommissionRate:     decimal.NewNullDecimal(st.CommissionRate.Decimal()),
			DriverBonus:        minor(st.DriverBonus),
			DriverPenalty:      minor(st.DriverPenalty),
			SettledAt:          &st.SettledAt,
		}
		if st.DriverEarnings != nil {
			dto.Settlement.DriverEarnings = minor(*st.DriverEarnings)
		}
	}

	if r := s.Review; r != nil {
		dto.Review = ReviewDTO{
			CustomerRating:   &r.CustomerRating,
			DriverRating:     &r.DriverRating,
			RestaurantRating: &r.RestaurantRating,
			Comment:          r.Comment,
			SubmittedAt:      &r.SubmittedAt,
		}
	}

	for idx, item := range s.Items {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:             id,
			Position:            idx,
			MenuItemID:          item.MenuItemRef.Bytes(),
			Name:                item.Name,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice.Minor(),
			Modifiers:           item.SelectedModifiers,
			SpecialInstructions: item.SpecialInstructions,
			TotalPrice:          item.TotalPrice.Minor(),
		})
	}

	for idx, p := range s.AppliedPromotions {
		dto.Promotions = append(dto.Promotions, PromotionDTO{
			OrderID:     id,
			Position:    idx,
			PromotionID: p.PromotionID,
			Code:        p.Code,
			Title:       p.Title,
			Discount:    p.Discount.Minor(),
		})
	}

	dto.TrackingUpdates = trackingFromDomain(id, s.TrackingUpdates)
	return dto
}

func trackingFromDomain(orderID uuid.UUID, updates []order.TrackingUpdate) []TrackingUpdateDTO {
	rows := make([]TrackingUpdateDTO, 0, len(updates))
	for _, u := range updates {
		row := TrackingUpdateDTO{
			OrderID:   orderID,
			Seq:       u.Seq,
			Status:    string(u.Status),
			Timestamp: u.Timestamp,
			Message:   u.Message,
		}
		row.Lat, row.Lon = coordinates(u.Location)
		rows = append(rows, row)
	}
	return rows
}

// toDomain rebuilds the aggregate through order.RestoreOrder, so rows that
// break an invariant are rejected on load.
func toDomain(dto OrderDTO) (*order.Order, error) {
	point, err := geoPoint(dto.Address.Lat, dto.Address.Lon)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Address.Street, dto.Address.City, dto.Address.PostalCode,
		dto.Address.Instructions, point)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		Amounts: order.Amounts{
			Subtotal:    kernel.NewMoney(dto.Amounts.Subtotal),
			Taxes:       kernel.NewMoney(dto.Amounts.Taxes),
			DeliveryFee: kernel.NewMoney(dto.Amounts.DeliveryFee),
			ServiceFee:  kernel.NewMoney(dto.Amounts.ServiceFee),
			Discount:    kernel.NewMoney(dto.Amounts.Discount),
			Tip:         kernel.NewMoney(dto.Amounts.Tip),
			Total:       kernel.NewMoney(dto.Amounts.TotalAmount),

			PostDeliveryTip: kernel.NewMoney(dto.Amounts.PostDeliveryTip),
		},
		Timeline: order.Timeline{
			PlacedAt:         dto.Timeline.PlacedAt.UTC(),
			PaidAt:           utc(dto.Timeline.PaidAt),
			ConfirmedAt:      utc(dto.Timeline.ConfirmedAt),
			PreparingAt:      utc(dto.Timeline.PreparingAt),
			ReadyAt:          utc(dto.Timeline.ReadyAt),
			PickedUpAt:       utc(dto.Timeline.PickedUpAt),
			DeliveredAt:      utc(dto.Timeline.DeliveredAt),
			CancelledAt:      utc(dto.Timeline.CancelledAt),
			DriverAssignedAt: utc(dto.Timeline.DriverAssignedAt),
		},
		ID:                    uuidOf(dto.ID),
		OrderNumber:           dto.OrderNumber,
		CustomerRef:           uuidOf(dto.CustomerID),
		RestaurantRef:         uuidOf(dto.RestaurantID),
		VendorRef:             uuidOf(dto.VendorID),
		Category:              dto.Category,
		Status:                order.Status(dto.Status),
		PaymentStatus:         order.PaymentStatus(dto.PaymentStatus),
		PaymentMethodRef:      dto.PaymentMethodRef,
		Currency:              dto.Currency,
		DistanceMeters:        dto.DistanceMeters,
		DeliveryAddress:       address,
		EstimatedDeliveryTime: utc(dto.EstimatedDeliveryTime),
		ActualDeliveryTime:    utc(dto.ActualDeliveryTime),
		CancellationReason:    dto.CancellationReason,
		Version:               dto.Version,
	}
	if dto.DriverID != nil {
		ref := uuidOf(*dto.DriverID)
		s.DriverRef = &ref
	}
	if dto.CancelledByID != nil && dto.CancelledByRole != nil {
		s.CancelledBy = &order.Actor{ID: *dto.CancelledByID, Role: order.Role(*dto.CancelledByRole)}
	}

	if st := dto.Settlement; st.SettledAt != nil {
		rate, rateErr := kernel.NewRate(st.CommissionRate.Decimal)
		if rateErr != nil {
			return nil, rateErr
		}
		s.Settlement = &order.Settlement{
			PlatformCommission: money(st.PlatformCommission),
			RestaurantEarnings: money(st.RestaurantEarnings),
			CommissionRate:     rate,
			DriverBonus:        money(st.DriverBonus),
			DriverPenalty:      money(st.DriverPenalty),
			SettledAt:          st.SettledAt.UTC(),
		}
		if st.DriverEarnings != nil {
			earnings := kernel.NewMoney(*st.DriverEarnings)
			s.Settlement.DriverEarnings = &earnings
		}
	}

	if r := dto.Review; r.SubmittedAt != nil {
		s.Review = &order.Review{
			CustomerRating:   deref(r.CustomerRating),
			DriverRating:     deref(r.DriverRating),
			RestaurantRating: deref(r.RestaurantRating),
			Comment:          r.Comment,
			SubmittedAt:      r.SubmittedAt.UTC(),
		}
	}

	for _, item := range dto.Items {
		s.Items = append(s.Items, order.ItemSnapshot{
			MenuItemRef:         uuidOf(item.MenuItemID),
			Name:                item.Name,
			Quantity:            item.Quantity,
			UnitPrice:           kernel.NewMoney(item.UnitPrice),
			SelectedModifiers:   item.Modifiers,
			SpecialInstructions: item.SpecialInstructions,
			TotalPrice:          kernel.NewMoney(item.TotalPrice),
		})
	}

	for _, p := range dto.Promotions {
		s.AppliedPromotions = append(s.AppliedPromotions, order.AppliedPromotion{
			PromotionID: p.PromotionID,
			Code:        p.Code,
			Title:       p.Title,
			Discount:    kernel.NewMoney(p.Discount),
		})
	}

	for _, u := range dto.TrackingUpdates {
		location, locErr := geoPoint(u.Lat, u.Lon)
		if locErr != nil {
			return nil, locErr
		}
		s.TrackingUpdates = append(s.TrackingUpdates, order.TrackingUpdate{
			Seq:       u.Seq,
			Status:    order.TrackingStatus(u.Status),
			Timestamp: u.Timestamp.UTC(),
			Message:   u.Message,
			Location:  location,
		})
	}

	return order.RestoreOrder(s)
}

func uuidOf(raw uuid.UUID) kernel.UUID {
	id, _ := kernel.UUIDFromBytes(raw[:])
	return id
}

func rawRef(ref *kernel.UUID) *uuid.UUID {
	if ref == nil {
		return nil
	}
	raw := ref.Bytes()
	return &raw
}

func coordinates(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Lat(), p.Lon()
	return &lat, &lon
}

func geoPoint(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func minor(m kernel.Money) *int64 {
	v := m.Minor()
	return &v
}

func money(v *int64) kernel.Money {
	if v == nil {
		return kernel.Zero
	}
	return kernel.NewMoney(*v)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// Models lists the tables owned by this package, parents first, for AutoMigrate.
func Models() []any {
	return []any{&OrderDTO{}, &ItemDTO{}, &PromotionDTO{}, &TrackingUpdateDTO{}}
}
