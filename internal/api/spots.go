package api

import (
	"context"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/code19m/errx"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/internal/upload"
	"github.com/samber/lo"
)

const (
	fieldImages = "images"
	fieldImage  = "image"

	codeInvalidJSONBody = "INVALID_JSON_BODY"
	codeInvalidForm     = "INVALID_MULTIPART_FORM"
)

type listSpotsRequest struct {
	Q string `query:"q"`
}

func (h *handler) listSpots(ctx context.Context, req *listSpotsRequest) ([]spot.Spot, error) {
	return h.Spots.List(ctx, req.Q)
}

type getSpotRequest struct {
	ID string `params:"id"`
}

func (h *handler) getSpot(ctx context.Context, req *getSpotRequest) (*spot.Spot, error) {
	return h.Spots.Get(ctx, req.ID)
}

// createSpot accepts a multipart form (fields plus "images" files) or a JSON body.
func (h *handler) createSpot(c *fiber.Ctx) error {
	fields, files, err := parseCreateBody(c)
	if err != nil {
		return errx.Wrap(err)
	}

	draft, err := spot.DraftFromFields(c.UserContext(), fields)
	if err != nil {
		return errx.Wrap(err)
	}

	created, err := h.Spots.Create(c.UserContext(), draft, files...)
	if err != nil {
		return errx.Wrap(err)
	}

	return errx.Wrap(c.Status(fiber.StatusCreated).JSON(created))
}

func (h *handler) addImage(c *fiber.Ctx) error {
	var image *upload.File

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return invalidForm(err)
		}
		if fhs := form.File[fieldImage]; len(fhs) > 0 {
			image = lo.ToPtr(upload.FromMultipart(fhs[0]))
		}
	}

	updated, err := h.Spots.AddImage(c.UserContext(), c.Params("id"), image)
	if err != nil {
		return errx.Wrap(err)
	}

	return errx.Wrap(c.JSON(updated))
}

func (h *handler) spotImage(c *fiber.Ctx) error {
	f, err := h.Spots.Image(c.UserContext(), c.Params("id"), c.Params("index"))
	if err != nil {
		return errx.Wrap(err)
	}
	return sendFile(c, f)
}

// uploadedFile streams /uploads/:name. Route params arrive percent-encoded.
func (h *handler) uploadedFile(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return errx.New(
			"invalid upload name",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"name": c.Params("name")}),
		)
	}

	f, err := h.Uploads.Open(c.UserContext(), upload.PathPrefix+name)
	if err != nil {
		return errx.Wrap(err)
	}
	return sendFile(c, f)
}

// sendFile streams f as the response body. The body stream closes f.Content.
func sendFile(c *fiber.Ctx, f *filestore.File) error {
	contentType := f.Info.ContentType
	if contentType == "" {
		contentType = filestore.ContentTypeByName(f.Info.Path)
	}
	c.Set(fiber.HeaderContentType, contentType)

	if f.Info.Size > 0 {
		return c.SendStream(f.Content, int(f.Info.Size))
	}
	return c.SendStream(f.Content)
}

// parseCreateBody returns the loosely typed spot fields and the uploaded images.
// Bodies that are neither multipart nor JSON are treated as empty.
func parseCreateBody(c *fiber.Ctx) (map[string]any, []upload.File, error) {
	fields := make(map[string]any)

	switch {
	case isMultipart(c):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, invalidForm(err)
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		return fields, lo.Map(form.File[fieldImages], func(fh *multipart.FileHeader, _ int) upload.File {
			return upload.FromMultipart(fh)
		}), nil

	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return fields, nil, nil
		}
		if err := json.Unmarshal(c.Body(), &fields); err != nil {
			return nil, nil, errx.Wrap(
				err,
				errx.WithCode(codeInvalidJSONBody),
				errx.WithType(errx.T_Validation),
			)
		}
		return fields, nil, nil

	default:
		return fields, nil, nil
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func invalidForm(err error) error {
	return errx.Wrap(
		err,
		errx.WithCode(codeInvalidForm),
		errx.WithType(errx.T_Validation),
	)
}
