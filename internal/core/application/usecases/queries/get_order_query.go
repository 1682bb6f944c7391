package queries

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderByIDQuery or NewGetOrderByNumberQuery",
	)
)

// GetOrderQuery retrieves the full order document by id or by order number.
//
// Example:
//
//	query, err := NewGetOrderByNumberQuery("FD-250504-ck9x2f1")
//	if err != nil {
//	    return err
//	}
//	doc, err := handler.Handle(ctx, query)
//	if doc.Settlement == nil {
//	    // not delivered yet
//	}
type GetOrderQuery struct {
	id     kernel.UUID
	number string

	guard guard.ConstructorGuard
}

func NewGetOrderByIDQuery(id kernel.UUID) (GetOrderQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func NewGetOrderByNumberQuery(number string) (GetOrderQuery, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("order number")
	}
	return GetOrderQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// ByNumber reports whether the query looks the order up by its number.
func (q GetOrderQuery) ByNumber() bool {
	return q.number != ""
}

func (q GetOrderQuery) ID() kernel.UUID {
	return q.id
}

func (q GetOrderQuery) Number() string {
	return q.number
}
