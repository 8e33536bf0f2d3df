package spot

import (
	"context"
	"strings"

	"github.com/code19m/errx"
	"github.com/goccy/go-json"
	"github.com/rise-and-shine/skatespots/logger"
	"github.com/spf13/cast"
)

// Draft is the client-supplied content of a new spot.
type Draft struct {
	Name        string
	City        string
	Description string
	Category    *float64
	RatingFlat  *float64
	RatingCrowd *float64
	Coords      *Coords
}

// DraftFromFields builds a draft from loosely typed request fields, as decoded from
// a JSON body or taken from multipart form values.
//
// Numbers may be given as numbers or numeric strings; empty values count as absent.
// coords may be an object or a JSON encoded string. A string that does not decode
// to an object is ignored and the spot gets no coordinates.
func DraftFromFields(ctx context.Context, fields map[string]any) (Draft, error) {
	var (
		d   Draft
		err error
	)

	d.Name = cast.ToString(fields["name"])
	d.City = cast.ToString(fields["city"])
	d.Description = cast.ToString(fields["description"])

	if d.Category, err = parseNumber("category", fields["category"]); err != nil {
		return Draft{}, err
	}
	if d.RatingFlat, err = parseNumber("ratingFlat", fields["ratingFlat"]); err != nil {
		return Draft{}, err
	}
	if d.RatingCrowd, err = parseNumber("ratingCrowd", fields["ratingCrowd"]); err != nil {
		return Draft{}, err
	}

	raw := fields["coords"]
	if s, ok := raw.(string); ok {
		raw = decodeCoords(ctx, s)
	}

	if m, ok := raw.(map[string]any); ok {
		if d.Coords, err = parseCoords(m); err != nil {
			return Draft{}, err
		}
	}

	return d, nil
}

// decodeCoords decodes a JSON encoded coords object. Malformed input yields nil.
func decodeCoords(ctx context.Context, s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		logger.Named("spot.draft").WithContext(ctx).
			With("coords", s).
			With("decode_error", err.Error()).
			Debug("ignoring malformed coords")
		return nil
	}
	return m
}

func parseCoords(m map[string]any) (*Coords, error) {
	lat, err := parseNumber("coords.lat", m["lat"])
	if err != nil {
		return nil, err
	}
	lng, err := parseNumber("coords.lng", m["lng"])
	if err != nil {
		return nil, err
	}

	c := &Coords{Lat: lat, Lng: lng}
	if c.IsEmpty() {
		return nil, nil
	}
	return c, nil
}

// parseNumber coerces v to a number. nil and blank strings are absent.
func parseNumber(field string, v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
		v = s
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, errx.Wrap(
			err,
			errx.WithCode(CodeInvalidNumber),
			errx.WithDetails(errx.D{"field": field, "value": v}),
		)
	}
	return &f, nil
}
