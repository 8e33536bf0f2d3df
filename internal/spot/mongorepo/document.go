package mongorepo

import (
	"github.com/rise-and-shine/skatespots/internal/spot"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type spotDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name,omitempty"`
	City        string             `bson:"city,omitempty"`
	Description string             `bson:"description,omitempty"`
	Category    *float64           `bson:"category,omitempty"`
	RatingFlat  *float64           `bson:"ratingFlat,omitempty"`
	RatingCrowd *float64           `bson:"ratingCrowd,omitempty"`
	Coords      *coordsDocument    `bson:"coords,omitempty"`
	ImageURL    []string           `bson:"imageUrl"`
}

type coordsDocument struct {
	Lat *float64 `bson:"lat,omitempty"`
	Lng *float64 `bson:"lng,omitempty"`
}

func toDocument(id primitive.ObjectID, s spot.Spot) spotDocument {
	doc := spotDocument{
		ID:          id,
		Name:        s.Name,
		City:        s.City,
		Description: s.Description,
		Category:    s.Category,
		RatingFlat:  s.RatingFlat,
		RatingCrowd: s.RatingCrowd,
		ImageURL:    s.WithDefaultImage().ImageURL,
	}
	if !s.Coords.IsEmpty() {
		doc.Coords = &coordsDocument{Lat: s.Coords.Lat, Lng: s.Coords.Lng}
	}
	return doc
}

func (d spotDocument) toSpot() spot.Spot {
	s := spot.Spot{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		City:        d.City,
		Description: d.Description,
		Category:    d.Category,
		RatingFlat:  d.RatingFlat,
		RatingCrowd: d.RatingCrowd,
		ImageURL:    d.ImageURL,
	}
	if d.Coords != nil && (d.Coords.Lat != nil || d.Coords.Lng != nil) {
		s.Coords = &spot.Coords{Lat: d.Coords.Lat, Lng: d.Coords.Lng}
	}
	// documents written by other clients may lack images
	return s.WithDefaultImage()
}
