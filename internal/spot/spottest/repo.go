// Package spottest provides an in-memory spot.Repository for tests.
package spottest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repo keeps spots in insertion order. Ids are ObjectID hex strings like the
// Mongo repository assigns, and ids that are not valid ObjectIDs are rejected the same way.
type Repo struct {
	mu    sync.RWMutex
	spots []spot.Spot

	// Err, when set, is returned by every call.
	Err error
}

// New creates an empty Repo.
func New() *Repo {
	return &Repo{}
}

func (r *Repo) List(_ context.Context, query string) ([]spot.Spot, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	res := make([]spot.Spot, 0, len(r.spots))
	for _, s := range r.spots {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.City), q) ||
			strings.Contains(strings.ToLower(s.Description), q) {
			res = append(res, clone(s))
		}
	}
	return res, nil
}

func (r *Repo) Get(_ context.Context, id string) (*spot.Spot, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, spot.ErrInvalidID(id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, spot.ErrNotFound(id)
	}
	s := clone(r.spots[i])
	return &s, nil
}

func (r *Repo) Insert(_ context.Context, s spot.Spot) (*spot.Spot, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s = clone(s.WithDefaultImage())
	s.ID = primitive.NewObjectID().Hex()
	r.spots = append(r.spots, s)

	res := clone(s)
	return &res, nil
}

func (r *Repo) Update(_ context.Context, s spot.Spot) (*spot.Spot, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if _, err := primitive.ObjectIDFromHex(s.ID); err != nil {
		return nil, spot.ErrInvalidID(s.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(s.ID)
	if i < 0 {
		return nil, spot.ErrNotFound(s.ID)
	}
	r.spots[i].ImageURL = slices.Clone(s.WithDefaultImage().ImageURL)

	res := clone(r.spots[i])
	return &res, nil
}

// Len returns the number of stored spots.
func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spots)
}

// StoreFailure returns an error shaped like a store read/write failure.
func StoreFailure() error {
	return errx.New("store is down", errx.WithCode(spot.CodeStoreFailed))
}

func (r *Repo) index(id string) int {
	return slices.IndexFunc(r.spots, func(s spot.Spot) bool { return s.ID == id })
}

func clone(s spot.Spot) spot.Spot {
	s.ImageURL = slices.Clone(s.ImageURL)
	if s.Coords != nil {
		c := *s.Coords
		s.Coords = &c
	}
	return s
}
