package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/meta"
)

const (
	// codeRouterError is used when the router encounters an error.
	codeRouterError = "ROUTER_ERROR"

	// Generic message codes, used when an error code has no translation of its own.
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeThrottled    = "TOO_MANY_REQUESTS"
)

// WriteErrorResponse writes the standardized JSON error body and status for err.
//
// Only the error code, a translated human readable message, validation fields and the
// trace id are exposed. Causes, traces and details stay in the logs.
func WriteErrorResponse(c *fiber.Ctx, err error) error {
	e := mapAnyErrorToErrorX(err)
	lang := c.Get(fiber.HeaderAcceptLanguage)

	c.Status(mapErrorTypeToHTTPStatusCode(e.Type()))
	_ = c.JSON(errorSchema{
		Code:    e.Code(),
		Message: messageFor(e, lang),
		TraceID: meta.Find(c.UserContext(), meta.TraceID),
		Fields:  e.Fields(),
	})

	return e
}

// customErrorHandler returns a Fiber error handler that ensures consistent error responses.
//
// If the response status code is already set to an error (>= 400), it does not override it.
func customErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		r := ctx.Response()

		// if error already handled, skip processing by returning nil
		if r != nil && r.StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		_ = WriteErrorResponse(ctx, err)
		return nil
	}
}

// errorSchema defines the structure of error responses returned to clients.
type errorSchema struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// messageFor translates the error code, falling back to a generic message for the error type.
func messageFor(e errx.ErrorX, lang string) string {
	if msg, ok := meta.Lookup(e.Code(), lang); ok {
		return msg
	}
	return meta.Tr(genericCode(e.Type()), lang)
}

func genericCode(t errx.Type) string {
	switch t {
	case errx.T_Authentication:
		return CodeUnauthorized
	case errx.T_Forbidden:
		return CodeForbidden
	case errx.T_NotFound:
		return CodeNotFound
	case errx.T_Validation:
		return CodeBadRequest
	case errx.T_Conflict:
		return CodeConflict
	case errx.T_Throttling:
		return CodeThrottled
	default:
		return CodeInternal
	}
}

// mapErrorTypeToHTTPStatusCode converts an errx.Type to the appropriate HTTP status code.
func mapErrorTypeToHTTPStatusCode(t errx.Type) int {
	switch t {
	case errx.T_Authentication:
		return fiber.StatusUnauthorized
	case errx.T_Forbidden:
		return fiber.StatusForbidden
	case errx.T_NotFound:
		return fiber.StatusNotFound
	case errx.T_Validation:
		return fiber.StatusBadRequest
	case errx.T_Conflict:
		return fiber.StatusConflict
	case errx.T_Throttling:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// mapAnyErrorToErrorX converts any error to an errx.ErrorX type.
// Fiber errors (unknown routes, bad methods, body limits) keep their status class.
func mapAnyErrorToErrorX(err error) errx.ErrorX {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		var t errx.Type

		switch {
		case fiberErr.Code == fiber.StatusUnauthorized:
			t = errx.T_Authentication
		case fiberErr.Code == fiber.StatusForbidden:
			t = errx.T_Forbidden
		case fiberErr.Code == fiber.StatusNotFound:
			t = errx.T_NotFound
		case fiberErr.Code == fiber.StatusConflict:
			t = errx.T_Conflict
		case fiberErr.Code == fiber.StatusTooManyRequests:
			t = errx.T_Throttling
		case fiberErr.Code >= 400 && fiberErr.Code < 500:
			t = errx.T_Validation
		default:
			t = errx.T_Internal
		}

		err = errx.New(
			fiberErr.Message,
			errx.WithCode(codeRouterError),
			errx.WithType(t),
			errx.WithDetails(errx.D{
				"fiber_code": fiberErr.Code,
				"fiber_msg":  fiberErr.Message,
			}),
		)
	}

	return errx.AsErrorX(err)
}
