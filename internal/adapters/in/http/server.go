package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// Handlers are the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	RecordPayment   commands.RecordPaymentCommandHandler
	TransitionOrder commands.TransitionOrderCommandHandler
	AssignDriver    commands.AssignDriverCommandHandler
	AddTrackingPing commands.AddTrackingPingCommandHandler
	SetTip          commands.SetTipCommandHandler
	SubmitReview    commands.SubmitReviewCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	GetActiveOrders queries.GetActiveOrdersQueryHandler
	GetTracking     queries.GetTrackingQueryHandler
}

// Server translates HTTP requests into commands and queries. Errors are
// returned to echo and rendered by NewErrorHandler.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req newOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	if req.OrderID != nil {
		orderID = *req.OrderID
	}
	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, commands.OrderLine{
			MenuItemRef:         item.MenuItemRef,
			Quantity:            item.Quantity,
			OptionIDs:           item.OptionIDs,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, req.CustomerRef, req.RestaurantRef, lines, req.DeliveryAddress, req.PaymentMethodRef,
		commands.WithPromoCodes(req.PromoCodes...),
		commands.WithDistance(req.DistanceMeters),
	)
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+o.ID().String())
	return c.JSON(http.StatusCreated, o.Snapshot())
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderByIDQuery(orderID)
	if err != nil {
		return err
	}

	snapshot, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/{orderNumber}.
func (s *Server) GetOrderByNumber(c echo.Context) error {
	var number string
	err := runtime.BindStyledParameterWithOptions("simple", "orderNumber", c.Param("orderNumber"), &number,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderNumber: %s", err))
	}
	query, err := queries.NewGetOrderByNumberQuery(number)
	if err != nil {
		return err
	}

	snapshot, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(c echo.Context) error {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	query, err := queries.NewGetActiveOrdersQuery(valueOrZero(limit))
	if err != nil {
		return err
	}

	active, err := s.h.GetActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, active)
}

// GetTracking handles GET /api/v1/orders/{orderId}/tracking.
func (s *Server) GetTracking(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var after *int
	if err = runtime.BindQueryParameter("form", true, false, "after", c.QueryParams(), &after); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter after: %s", err))
	}
	query, err := queries.NewGetTrackingQuery(orderID, valueOrZero(after))
	if err != nil {
		return err
	}

	tracking, err := s.h.GetTracking.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tracking)
}

// RecordPayment handles POST /api/v1/orders/{orderId}/payment.
func (s *Server) RecordPayment(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req paymentResultRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	status, err := order.ParsePaymentStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRecordPaymentCommand(orderID, status, req.Reference, req.Reason)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	})
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	opts := []commands.TransitionOption{
		commands.WithMessage(req.Message),
		commands.WithCancellationReason(req.Reason),
	}
	if req.Location != nil {
		opts = append(opts, commands.WithLocation(*req.Location))
	}
	actor := order.Actor{ID: req.Actor.ID, Role: order.Role(req.Actor.Role)}
	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor, opts...)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.TransitionOrder.Handle(c.Request().Context(), cmd)
	})
}

// AssignDriver handles PUT /api/v1/orders/{orderId}/driver.
func (s *Server) AssignDriver(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req driverAssignmentRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewAssignDriverCommand(orderID, req.DriverRef)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.AssignDriver.Handle(c.Request().Context(), cmd)
	})
}

// AddTrackingPing handles POST /api/v1/orders/{orderId}/tracking.
func (s *Server) AddTrackingPing(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req trackingPingRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewAddTrackingPingCommand(orderID, req.Message, req.Location)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.AddTrackingPing.Handle(c.Request().Context(), cmd)
	})
}

// SetTip handles PUT /api/v1/orders/{orderId}/tip.
func (s *Server) SetTip(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req tipRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewSetTipCommand(orderID, req.Amount)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.SetTip.Handle(c.Request().Context(), cmd)
	})
}

// SubmitReview handles POST /api/v1/orders/{orderId}/review.
func (s *Server) SubmitReview(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewSubmitReviewCommand(orderID, req.CustomerRating, req.DriverRating, req.RestaurantRating, req.Comment)
	if err != nil {
		return err
	}

	return s.respond(c, func() (*order.Order, error) {
		return s.h.SubmitReview.Handle(c.Request().Context(), cmd)
	})
}

func (s *Server) respond(c echo.Context, handle func() (*order.Order, error)) error {
	o, err := handle()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o.Snapshot())
}

func bindOrderID(c echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return kernel.UUIDFromBytes(id[:])
}

// valueOrZero unwraps an optional query parameter.
func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
