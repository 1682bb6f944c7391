package queries

import (
	"context"

	"orderengine/internal/core/domain/model/order"
)

// GetOrderQueryHandler returns the persisted order document. Settlement and
// review are absent until they exist.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var (
		o   *order.Order
		err error
	)
	if query.ByNumber() {
		o, err = h.reader.GetByNumber(ctx, query.Number())
	} else {
		o, err = h.reader.Get(ctx, query.ID())
	}
	if err != nil {
		return order.Snapshot{}, err
	}

	return o.Snapshot(), nil
}
