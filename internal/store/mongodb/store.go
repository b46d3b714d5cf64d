// Package mongodb backs the store port with MongoDB. Each collection path
// maps to one Mongo collection of the same name; transactions map to
// driver sessions, so the deployment must support them (replica set).
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/store"
)

// DocumentStore implements store.Store on MongoDB.
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ store.Store = (*DocumentStore)(nil)

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string, logger *zap.Logger) (*DocumentStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DocumentStore{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *DocumentStore) collection(path string) *mongo.Collection {
	return s.db.Collection(path)
}

func (s *DocumentStore) Get(ctx context.Context, collectionPath, id string, out any) error {
	err := s.collection(collectionPath).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collectionPath, id, err)
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collectionPath string, filter store.Filter, orderBy *store.OrderBy, out any) error {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find()
	if orderBy != nil {
		dir := 1
		if orderBy.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: orderBy.Field, Value: dir}})
	}

	cursor, err := s.collection(collectionPath).Find(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("list %s: %w", collectionPath, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s listing: %w", collectionPath, err)
	}
	return nil
}

func (s *DocumentStore) Create(ctx context.Context, collectionPath, id string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document for %s: %w", collectionPath, err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("normalize document for %s: %w", collectionPath, err)
	}
	m["_id"] = id

	if _, err := s.collection(collectionPath).InsertOne(ctx, m); err != nil {
		return fmt.Errorf("create %s/%s: %w", collectionPath, id, err)
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, collectionPath, id string, patch map[string]any) error {
	res, err := s.collection(collectionPath).UpdateByID(ctx, id, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collectionPath, id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collectionPath, id string) error {
	res, err := s.collection(collectionPath).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collectionPath, id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Transaction runs fn inside one Mongo session transaction. The session
// context passed to fn must be used for every store call inside it.
func (s *DocumentStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s)
	})
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}
