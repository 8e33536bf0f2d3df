// Package mongorepo implements spot.Repository on a MongoDB collection.
package mongorepo

import (
	"context"
	"errors"
	"regexp"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const defaultDatabase = "test"

// Repo is a spot.Repository backed by a Mongo collection.
type Repo struct {
	client *mongo.Client
	coll   *mongo.Collection

	// unavailable is set when Open could not connect; every call returns it.
	unavailable error
}

var _ spot.Repository = (*Repo)(nil)

// Open connects to Mongo and pings it.
//
// Open never fails: a missing URI or a failed connection is logged and the
// returned Repo answers every call with spot.CodeStoreUnavailable.
func Open(ctx context.Context, cfg Config) *Repo {
	log := logger.Named("mongorepo").WithContext(ctx)

	client, dbName, err := connect(ctx, cfg)
	if err != nil {
		log.Errorx(err)
		return &Repo{unavailable: err}
	}

	log.With("database", dbName).With("collection", cfg.Collection).Info("mongo connected")

	return &Repo{
		client: client,
		coll:   client.Database(dbName).Collection(cfg.Collection),
	}
}

func connect(ctx context.Context, cfg Config) (*mongo.Client, string, error) {
	if cfg.URI == "" {
		return nil, "", errx.New(
			"mongo uri is not configured",
			errx.WithCode(spot.CodeStoreUnavailable),
		)
	}

	dbName, err := databaseName(cfg)
	if err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, "", errx.Wrap(err, errx.WithCode(spot.CodeStoreUnavailable))
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, "", errx.Wrap(err, errx.WithCode(spot.CodeStoreUnavailable))
	}

	return client, dbName, nil
}

// databaseName picks the configured database, else the one in the URI path.
func databaseName(cfg Config) (string, error) {
	if cfg.Database != "" {
		return cfg.Database, nil
	}

	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return "", errx.Wrap(err, errx.WithCode(spot.CodeStoreUnavailable))
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return defaultDatabase, nil
}

// Close disconnects the client.
func (r *Repo) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return errx.Wrap(r.client.Disconnect(ctx))
}

func (r *Repo) List(ctx context.Context, query string) ([]spot.Spot, error) {
	if r.unavailable != nil {
		return nil, errx.Wrap(r.unavailable)
	}

	cursor, err := r.coll.Find(ctx, listFilter(query))
	if err != nil {
		return nil, storeFailed(err, "find")
	}

	var docs []spotDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, storeFailed(err, "find")
	}

	spots := make([]spot.Spot, 0, len(docs))
	for _, d := range docs {
		spots = append(spots, d.toSpot())
	}
	return spots, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*spot.Spot, error) {
	if r.unavailable != nil {
		return nil, errx.Wrap(r.unavailable)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, spot.ErrInvalidID(id)
	}

	var doc spotDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, spot.ErrNotFound(id)
	}
	if err != nil {
		return nil, storeFailed(err, "find_one")
	}

	s := doc.toSpot()
	return &s, nil
}

func (r *Repo) Insert(ctx context.Context, s spot.Spot) (*spot.Spot, error) {
	if r.unavailable != nil {
		return nil, errx.Wrap(r.unavailable)
	}

	doc := toDocument(primitive.NewObjectID(), s)

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeFailed(err, "insert_one")
	}

	created := doc.toSpot()
	return &created, nil
}

func (r *Repo) Update(ctx context.Context, s spot.Spot) (*spot.Spot, error) {
	if r.unavailable != nil {
		return nil, errx.Wrap(r.unavailable)
	}

	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return nil, spot.ErrInvalidID(s.ID)
	}

	update := bson.M{
		"$set": bson.M{"imageUrl": s.WithDefaultImage().ImageURL},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc spotDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, spot.ErrNotFound(s.ID)
	}
	if err != nil {
		return nil, storeFailed(err, "find_one_and_update")
	}

	updated := doc.toSpot()
	return &updated, nil
}

// listFilter matches query as a case-insensitive substring of name, city or description.
func listFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"city": pattern},
			bson.M{"description": pattern},
		},
	}
}

func storeFailed(err error, op string) error {
	return errx.Wrap(
		err,
		errx.WithCode(spot.CodeStoreFailed),
		errx.WithDetails(errx.D{"operation": op}),
	)
}
