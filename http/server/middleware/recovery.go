package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/logger"
)

const (
	stackTraceSize = 4096 // 4KB

	codePanicRecovered = "PANIC_RECOVERED"
)

// NewRecoveryMW creates a middleware that recovers from panics in the request
// handling chain and answers with a generic internal error.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) error {
			err := callWithRecovery(c)
			if err == nil {
				return nil
			}

			e := errx.AsErrorX(err)
			if e.Code() != codePanicRecovered {
				return err
			}

			log.Named("middleware.recovery").WithContext(c.UserContext()).Errorx(e)

			// panics skip the error handler, so the response is written here
			if c.Response().StatusCode() < fiber.StatusBadRequest {
				return server.WriteErrorResponse(c, e)
			}
			return e
		},
	}
}

// callWithRecovery executes the next handler and turns a panic into an error.
func callWithRecovery(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New(
				"panic recovered",
				errx.WithCode(codePanicRecovered),
				errx.WithDetails(errx.D{
					"stack_trace":   string(stackTrace),
					"panic_message": r,
				}),
			)
		}
	}()

	return c.Next()
}
