package mongorepo

import (
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, listFilter(""))

	pattern := primitive.Regex{Pattern: `rail\.park\*`, Options: "i"}
	assert.Equal(t, bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"city": pattern},
			bson.M{"description": pattern},
		},
	}, listFilter("rail.park*"))
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"from config", Config{URI: "mongodb://localhost:27017/fromuri", Database: "explicit"}, "explicit"},
		{"from uri", Config{URI: "mongodb://localhost:27017/fromuri"}, "fromuri"},
		{"default", Config{URI: "mongodb://localhost:27017"}, defaultDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := databaseName(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenWithoutURI(t *testing.T) {
	repo := Open(t.Context(), Config{Collection: "spots", ConnectTimeout: time.Second})

	_, err := repo.List(t.Context(), "")
	assert.True(t, errx.IsCodeIn(err, spot.CodeStoreUnavailable))

	_, err = repo.Get(t.Context(), primitive.NewObjectID().Hex())
	assert.True(t, errx.IsCodeIn(err, spot.CodeStoreUnavailable))

	_, err = repo.Insert(t.Context(), spot.Spot{})
	assert.True(t, errx.IsCodeIn(err, spot.CodeStoreUnavailable))

	assert.NoError(t, repo.Close(t.Context()))
}

func TestDocumentRoundTrip(t *testing.T) {
	lat := 60.17
	s := spot.Spot{
		Name:   "Rail Park",
		Coords: &spot.Coords{Lat: &lat},
	}

	oid := primitive.NewObjectID()
	doc := toDocument(oid, s)
	assert.Equal(t, []string{spot.DefaultImage}, doc.ImageURL)

	back := doc.toSpot()
	assert.Equal(t, oid.Hex(), back.ID)
	assert.Equal(t, "Rail Park", back.Name)
	assert.Equal(t, &spot.Coords{Lat: &lat}, back.Coords)
	assert.Equal(t, []string{spot.DefaultImage}, back.ImageURL)

	doc.Coords = &coordsDocument{}
	doc.ImageURL = nil
	back = doc.toSpot()
	assert.Nil(t, back.Coords)
	assert.Equal(t, []string{spot.DefaultImage}, back.ImageURL)
}
