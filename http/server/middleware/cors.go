package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rise-and-shine/skatespots/http/server"
)

// NewCORSMW creates a middleware allowing cross-origin requests from any origin.
func NewCORSMW() server.Middleware {
	return server.Middleware{
		Priority: 950,
		Handler: cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: strings.Join([]string{
				fiber.MethodGet,
				fiber.MethodPost,
				fiber.MethodHead,
				fiber.MethodOptions,
			}, ","),
			AllowHeaders:  "Origin, Content-Type, Accept, Accept-Language",
			ExposeHeaders: headerTraceID,
		}),
	}
}
