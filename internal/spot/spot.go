// Package spot holds the skate spot record, its defaulting rules and the use cases
// exposed over HTTP.
package spot

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultImage is the image every spot shows until a real one is attached.
const DefaultImage = "/images/default-spot.svg"

// Spot is a skate location record.
type Spot struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name,omitempty"`
	City        string   `json:"city,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    *float64 `json:"category,omitempty"`
	RatingFlat  *float64 `json:"ratingFlat,omitempty"`
	RatingCrowd *float64 `json:"ratingCrowd,omitempty"`
	Coords      *Coords  `json:"coords,omitempty"`
	ImageURL    []string `json:"imageUrl"`
}

// Coords is a geographic position. No range validation is applied.
type Coords struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// IsEmpty reports whether neither coordinate is set.
func (c *Coords) IsEmpty() bool {
	return c == nil || (c.Lat == nil && c.Lng == nil)
}

// NewSpot builds a spot from a draft and the paths of its uploaded images.
// Without images the spot gets DefaultImage.
func NewSpot(d Draft, images []string) Spot {
	s := Spot{
		Name:        d.Name,
		City:        d.City,
		Description: d.Description,
		Category:    d.Category,
		RatingFlat:  d.RatingFlat,
		RatingCrowd: d.RatingCrowd,
		ImageURL:    append([]string(nil), images...),
	}
	if !d.Coords.IsEmpty() {
		s.Coords = d.Coords
	}

	return s.WithDefaultImage()
}

// WithDefaultImage returns s with DefaultImage as its only image when it has none.
func (s Spot) WithDefaultImage() Spot {
	if len(s.ImageURL) == 0 {
		s.ImageURL = []string{DefaultImage}
	}
	return s
}

// WithImage returns s with path appended to its images and the default image removed.
func (s Spot) WithImage(path string) Spot {
	images := lo.Filter(s.ImageURL, func(url string, _ int) bool {
		return !isDefaultImage(url)
	})
	s.ImageURL = append(images, path)
	return s
}

func isDefaultImage(url string) bool {
	return strings.Contains(url, "default-spot.svg")
}
