package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"orderengine/internal/pkg/errs"
)

const mimeProblemJSON = "application/problem+json"

// Problem is an RFC 7807 problem document. Kind carries the stable error
// classification so clients never have to parse Detail.
type Problem struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Status   int       `json:"status"`
	Detail   string    `json:"detail,omitempty"`
	Instance string    `json:"instance,omitempty"`
	Kind     errs.Kind `json:"kind,omitempty"`
}

func problemType(slug string) string {
	return "/problems/" + slug
}

// problemFor maps a domain error to its problem. Internal errors never
// expose their detail.
func problemFor(err error) Problem {
	kind := errs.KindOf(err)
	p := Problem{
		Type:   problemType(strings.ReplaceAll(string(kind), "_", "-")),
		Detail: err.Error(),
		Kind:   kind,
	}

	switch kind {
	case errs.KindValidation:
		p.Title, p.Status = "Validation Error", http.StatusBadRequest
	case errs.KindNotFound:
		p.Title, p.Status = "Resource Not Found", http.StatusNotFound
	case errs.KindInvalidStateTransition:
		p.Title, p.Status = "Invalid State Transition", http.StatusConflict
	case errs.KindAlreadyTerminal:
		p.Title, p.Status = "Order Already Terminal", http.StatusConflict
	case errs.KindMissingPrecondition:
		p.Title, p.Status = "Missing Precondition", http.StatusUnprocessableEntity
	case errs.KindConcurrencyConflict:
		p.Title, p.Status = "Concurrent Modification", http.StatusConflict
	case errs.KindPaymentProvider:
		p.Title, p.Status = "Payment Provider Error", http.StatusBadGateway
	default:
		p.Title, p.Status = "Internal Server Error", http.StatusInternalServerError
		p.Detail = ""
	}
	return p
}

// problemFromHTTPError renders errors raised by echo itself (unknown routes,
// malformed bodies, bad parameters). A domain error wrapped inside one wins.
func problemFromHTTPError(he *echo.HTTPError) Problem {
	if he.Internal != nil && errs.KindOf(he.Internal) != errs.KindInternal {
		return problemFor(he.Internal)
	}

	p := Problem{
		Type:   problemType(strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "-")),
		Title:  http.StatusText(he.Code),
		Status: he.Code,
	}
	if msg, ok := he.Message.(string); ok && msg != p.Title {
		p.Detail = msg
	}
	return p
}

// NewErrorHandler renders every error returned by a handler as a problem.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var p Problem
		var he *echo.HTTPError
		if errors.As(err, &he) {
			p = problemFromHTTPError(he)
		} else {
			p = problemFor(err)
		}
		p.Instance = c.Request().URL.Path

		if p.Status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", p.Instance, "error", err)
		}

		c.Response().Header().Set(echo.HeaderContentType, mimeProblemJSON)
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(p.Status)
		} else {
			err = c.JSON(p.Status, p)
		}
		if err != nil {
			logger.Error("failed to write problem response", "error", err)
		}
	}
}
