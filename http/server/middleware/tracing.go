package middleware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/meta"
	"github.com/rise-and-shine/skatespots/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
)

const headerTraceID = "X-Trace-ID"

// NewTracingMW creates a middleware that starts a server span per request and
// stores the request trace id in the user context and the X-Trace-ID response header.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			carrier := propagation.HeaderCarrier{}
			c.Request().Header.VisitAll(func(k, v []byte) {
				carrier.Set(string(k), string(v))
			})
			parent := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

			ctx, span := otel.Tracer("http-server").Start(
				parent,
				fmt.Sprintf("%s %s", c.Method(), "/"),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			traceID := tracing.GetStartingTraceID(ctx)
			c.Set(headerTraceID, traceID)
			c.SetUserContext(context.WithValue(ctx, meta.TraceID, traceID))

			err := c.Next()

			routePattern := c.Route().Path
			if routePattern != "" && routePattern != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), routePattern))
			}

			span.SetAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(routePattern),
				semconv.URLFullKey.String(c.OriginalURL()),
				semconv.HTTPResponseStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
