// Package api exposes the skate spot endpoints over HTTP.
package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/http/server/forward"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/internal/upload"
)

// LivenessMessage is answered by GET /api/test.
const LivenessMessage = "Serveri toimii!"

// Geocoder resolves coordinates to a locality name.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon string) (string, error)
}

// FileOpener opens uploaded files by their public path.
type FileOpener interface {
	Open(ctx context.Context, path string) (*filestore.File, error)
}

// Deps are the collaborators of the route handlers.
type Deps struct {
	Spots    *spot.Service
	Geocoder Geocoder
	Uploads  FileOpener

	// UploadsDir, when set, serves /uploads straight from this directory.
	// Otherwise uploads are streamed through Uploads.
	UploadsDir string
}

type handler struct {
	Deps
}

// Register mounts all routes on r.
func Register(r fiber.Router, deps Deps) {
	h := &handler{Deps: deps}

	a := r.Group("/api")
	a.Get("/test", h.liveness)
	a.Get("/reverse", forward.ToUseCase(h.reverse))

	a.Get("/spots", forward.ToUseCase(h.listSpots))
	a.Post("/spots", h.createSpot)
	a.Get("/spots/:id", forward.ToUseCase(h.getSpot))
	a.Get("/spots/:id/image/:index", h.spotImage)
	a.Post("/spots/:id/add-image", h.addImage)

	if deps.UploadsDir != "" {
		r.Static(strings.TrimSuffix(upload.PathPrefix, "/"), deps.UploadsDir)
	} else {
		r.Get(upload.PathPrefix+":name", h.uploadedFile)
	}
}

func (h *handler) liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": LivenessMessage})
}
