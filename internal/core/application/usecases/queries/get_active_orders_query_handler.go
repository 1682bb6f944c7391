package queries

import (
	"context"
)

// GetActiveOrdersQueryHandler summarizes in-flight orders.
type GetActiveOrdersQueryHandler struct {
	reader OrderReader
}

func NewGetActiveOrdersQueryHandler(reader OrderReader) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{reader: reader}
}

func (h GetActiveOrdersQueryHandler) Handle(ctx context.Context, query GetActiveOrdersQuery) ([]ActiveOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.ListActive(ctx, query.Limit())
	if err != nil {
		return nil, err
	}

	result := make([]ActiveOrder, 0, len(orders))
	for _, o := range orders {
		summary := ActiveOrder{
			ID:            o.ID(),
			OrderNumber:   o.OrderNumber(),
			Status:        o.Status(),
			RestaurantRef: o.RestaurantRef(),
			DriverRef:     o.DriverRef(),
			PlacedAt:      o.Timeline().PlacedAt,
			TotalAmount:   o.TotalAmount(),
		}
		if last, ok := o.Tracking().Last(); ok {
			summary.LastUpdate = last.Message
		}
		result = append(result, summary)
	}

	return result, nil
}
