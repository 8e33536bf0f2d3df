package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/http/server"
)

// NewErrorHandlerMW creates a middleware that converts handler errors to the
// standardized JSON error response.
//
// The error is still returned so that outer middlewares (logger, tracing) can see it.
func NewErrorHandlerMW() server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// if error already handled, skip processing.
			if c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err)
		},
	}
}
