package queries

import (
	"context"
	"slices"

	"orderengine/internal/core/domain/model/order"
)

type GetTrackingQueryHandler struct {
	reader OrderReader
}

func NewGetTrackingQueryHandler(reader OrderReader) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{reader: reader}
}

func (h GetTrackingQueryHandler) Handle(ctx context.Context, query GetTrackingQuery) (GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	updates := slices.Collect(o.Tracking().Since(query.AfterSeq()))
	if updates == nil {
		updates = []order.TrackingUpdate{}
	}

	return GetTrackingQueryResponse{
		OrderID: o.ID(),
		Status:  o.Status(),
		Final:   o.Status().IsTerminal(),
		Updates: updates,
	}, nil
}
