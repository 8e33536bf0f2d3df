package app

import (
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/internal/geocode"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/val"
)

// Messages are the client facing texts of error codes, per language.
//
//nolint:gochecknoglobals // static translation table
var Messages = map[string]map[string]string{
	"en": {
		spot.CodeSpotNotFound:      "Spot not found",
		spot.CodeImageNotFound:     "Image not found",
		spot.CodeImageRequired:     "An image file is required",
		spot.CodeStoreFailed:       "Fetching or saving spots failed",
		spot.CodeStoreUnavailable:  "The spot database is unavailable",
		filestore.CodeFileNotFound: "Image not found",
		geocode.CodeGeocodeFailed:  "Could not resolve the city",
		val.CodeValidationFailed:   "Required parameters are missing",

		server.CodeBadRequest:   "Bad request",
		server.CodeNotFound:     "Not found",
		server.CodeConflict:     "Conflict",
		server.CodeInternal:     "Internal server error",
		server.CodeUnauthorized: "Unauthorized",
		server.CodeForbidden:    "Forbidden",
		server.CodeThrottled:    "Too many requests",
	},
	"fi": {
		spot.CodeSpotNotFound:      "Spot ei löytynyt",
		spot.CodeImageNotFound:     "Kuvaa ei löytynyt",
		spot.CodeImageRequired:     "Kuvatiedosto vaaditaan",
		spot.CodeStoreFailed:       "Tietojen haku epäonnistui.",
		spot.CodeStoreUnavailable:  "Tietokanta ei ole käytettävissä",
		filestore.CodeFileNotFound: "Kuvaa ei löytynyt",
		geocode.CodeGeocodeFailed:  "Kaupunkia ei voitu hakea",
		val.CodeValidationFailed:   "Pakollisia parametreja puuttuu",

		server.CodeBadRequest:   "Virheellinen pyyntö",
		server.CodeNotFound:     "Ei löytynyt",
		server.CodeConflict:     "Ristiriita",
		server.CodeInternal:     "Palvelinvirhe",
		server.CodeUnauthorized: "Kirjautuminen vaaditaan",
		server.CodeForbidden:    "Ei oikeuksia",
		server.CodeThrottled:    "Liian monta pyyntöä",
	},
}
