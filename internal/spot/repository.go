package spot

import "context"

// Repository persists spots.
//
// Implementations report missing records with CodeSpotNotFound, ids the store
// cannot parse with CodeInvalidSpotID and store failures with CodeStoreFailed.
type Repository interface {
	// List returns the spots whose name, city or description contains query,
	// case-insensitively. An empty query matches every spot. Never returns a nil slice.
	List(ctx context.Context, query string) ([]Spot, error)

	// Get returns the spot with the given id.
	Get(ctx context.Context, id string) (*Spot, error)

	// Insert stores a new spot and returns it with its assigned id.
	Insert(ctx context.Context, s Spot) (*Spot, error)

	// Update stores the images of an existing spot.
	Update(ctx context.Context, s Spot) (*Spot, error)
}
