package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance: request logging, panic recovery,
// validation against the API document, the API routes, health and swagger UI.
func NewRouter(ctx context.Context, server *Server, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	RegisterSwagger()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)
	api.POST("/orders", server.CreateOrder)
	api.GET("/orders/active", server.GetActiveOrders)
	api.GET("/orders/by-number/:orderNumber", server.GetOrderByNumber)
	api.GET("/orders/:orderId", server.GetOrder)
	api.POST("/orders/:orderId/payment", server.RecordPayment)
	api.POST("/orders/:orderId/transitions", server.TransitionOrder)
	api.PUT("/orders/:orderId/driver", server.AssignDriver)
	api.GET("/orders/:orderId/tracking", server.GetTracking)
	api.POST("/orders/:orderId/tracking", server.AddTrackingPing)
	api.PUT("/orders/:orderId/tip", server.SetTip)
	api.POST("/orders/:orderId/review", server.SubmitReview)

	return e, nil
}
