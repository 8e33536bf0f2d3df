package spot

import (
	"context"
	"strconv"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/internal/upload"
	"github.com/rise-and-shine/skatespots/logger"
)

// Uploads stores and serves spot images.
type Uploads interface {
	Save(ctx context.Context, files ...upload.File) ([]string, error)
	Remove(ctx context.Context, paths ...string)
	Open(ctx context.Context, path string) (*filestore.File, error)
}

// Service implements the spot use cases.
type Service struct {
	repo    Repository
	uploads Uploads
}

// NewService creates a Service.
func NewService(repo Repository, uploads Uploads) *Service {
	return &Service{repo: repo, uploads: uploads}
}

// List returns the spots matching query.
func (s *Service) List(ctx context.Context, query string) ([]Spot, error) {
	spots, err := s.repo.List(ctx, query)
	return spots, errx.Wrap(err)
}

// Get returns one spot.
func (s *Service) Get(ctx context.Context, id string) (*Spot, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return sp, nil
}

// Create stores the images and inserts a spot built from d referencing them.
// Stored images are removed again if the insert fails.
func (s *Service) Create(ctx context.Context, d Draft, images ...upload.File) (*Spot, error) {
	paths, err := s.uploads.Save(ctx, images...)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	created, err := s.repo.Insert(ctx, NewSpot(d, paths))
	if err != nil {
		s.uploads.Remove(ctx, paths...)
		return nil, errx.Wrap(err)
	}

	logger.Named("spot.service").WithContext(ctx).
		With("spot_id", created.ID).
		With("images", len(paths)).
		Info("spot created")

	return created, nil
}

// AddImage appends one image to the spot with the given id, replacing the default image.
func (s *Service) AddImage(ctx context.Context, id string, image *upload.File) (*Spot, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if image == nil {
		return nil, errx.New(
			"image file is required",
			errx.WithCode(CodeImageRequired),
			errx.WithType(errx.T_Validation),
			errx.WithFields(errx.M{"image": "This field is required"}),
		)
	}

	paths, err := s.uploads.Save(ctx, *image)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	updated, err := s.repo.Update(ctx, sp.WithImage(paths[0]))
	if err != nil {
		s.uploads.Remove(ctx, paths...)
		return nil, errx.Wrap(err)
	}

	return updated, nil
}

// Image opens the image at the given position of the spot's images.
// The caller must close the returned content.
//
// Unknown or unparsable ids, indexes out of range and indexes that are not
// plain decimal numbers all fail with a not found error.
func (s *Service) Image(ctx context.Context, id, index string) (*filestore.File, error) {
	sp, err := s.repo.Get(ctx, id)
	if errx.IsCodeIn(err, CodeInvalidSpotID) {
		return nil, errImageNotFound(id, index)
	}
	if err != nil {
		return nil, errx.Wrap(err)
	}

	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(sp.ImageURL) || strconv.Itoa(i) != index {
		return nil, errImageNotFound(id, index)
	}

	f, err := s.uploads.Open(ctx, sp.ImageURL[i])
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return f, nil
}
