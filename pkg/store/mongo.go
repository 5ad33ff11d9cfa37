package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

// MongoStore keeps bookmarks as documents in a collection with a unique
// index on name.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects a client for cfg. The driver connects lazily; use
// Ping or Open to verify the server is reachable.
func NewMongoStore(ctx context.Context, cfg Config) (*MongoStore, error) {
	uri := cfg.MongoURI
	if uri == "" {
		uri = DefaultMongoURI
	}
	db := cfg.MongoDatabase
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := cfg.MongoCollection
	if coll == "" {
		coll = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, storageErr(err, "mongo connect")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(db).Collection(coll),
	}, nil
}

// Ping checks the connection to the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique name index if missing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return storageErr(err, "mongo create index")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Bookmark, error) {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return nil, err
	}

	var b Bookmark
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageErr(err, "mongo get bookmark %q", name)
	}
	return &b, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Bookmark, error) {
	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, storageErr(err, "mongo list bookmarks")
	}
	defer cur.Close(ctx)

	var out []*Bookmark
	if err := cur.All(ctx, &out); err != nil {
		return nil, storageErr(err, "mongo decode bookmarks")
	}
	return out, nil
}

func (s *MongoStore) Save(ctx context.Context, b *Bookmark) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"name": b.Name},
		b,
		options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(err, "mongo save bookmark %q", b.Name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return err
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return storageErr(err, "mongo delete bookmark %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
