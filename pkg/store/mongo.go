package store

import (
	"context"
	goerrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one record per page, keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoPage is the stored record. Body holds the document's JSON so every
// backend stores the same bytes.
type mongoPage struct {
	Key       string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = DefaultPrefix
	}
	if cfg.Collection == "" {
		cfg.Collection = "pages"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongo")
	}
	err = retry(ctx, connectAttempts, connectDelay, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return transient(client.Ping(pingCtx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load implements Store.
func (s *MongoStore) Load(ctx context.Context, key string) (*document.Document, error) {
	if err := errors.ValidatePageKey(key); err != nil {
		return nil, err
	}
	var page mongoPage
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&page)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(BackendMongo, err, "find", key)
	}
	return decode(BackendMongo, key, []byte(page.Body))
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, key string, doc *document.Document) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	page := mongoPage{Key: key, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, page, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(BackendMongo, err, "replace", key)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
