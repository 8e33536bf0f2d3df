package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/meta"
)

// NewMetaInjectMW creates a middleware that copies request metadata (client address,
// user agent, referer, preferred language) into the request context.
// The trace id set by the tracing middleware is kept.
func NewMetaInjectMW() server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			metaData := map[meta.ContextKey]string{
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.Referer:        c.Get(fiber.HeaderReferer),
				meta.AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
			}

			ctx := meta.InjectMetaToContext(c.UserContext(), metaData)
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
