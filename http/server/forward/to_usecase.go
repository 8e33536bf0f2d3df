package forward

import (
	"context"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/val"
)

// UseCase is a use case method taking a decoded request and returning a response.
type UseCase[I, O any] func(context.Context, I) (O, error)

// ToUseCase forwards a request to a use case that returns a response.
//
// The request of type I (a pointer to a struct) is filled from the JSON body,
// the query string and the route params, then validated by its `validate` tags.
// The response is written as JSON with status 200, or with status when given.
func ToUseCase[I, O any](uc UseCase[I, O], status ...int) fiber.Handler {
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}

	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		err = decodeBody(c, req)
		if err != nil {
			return errx.Wrap(err)
		}

		err = decodeQuery(c, req)
		if err != nil {
			return errx.Wrap(err)
		}

		err = decodePath(c, req)
		if err != nil {
			return errx.Wrap(err)
		}

		err = val.ValidateSchema(req)
		if err != nil {
			return errx.Wrap(err)
		}

		resp, err := uc(c.UserContext(), req)
		if err != nil {
			return errx.Wrap(err)
		}

		return errx.Wrap(c.Status(code).JSON(resp))
	}
}
