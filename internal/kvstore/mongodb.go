package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fittrack/internal/core"
)

// kvDoc is the MongoDB document shape for one entry.
type kvDoc struct {
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDBStore implements Store on a single kv collection.
type MongoDBStore struct {
	collection *mongo.Collection
}

// NewMongoDB creates a MongoDB-backed store.
// It creates a unique compound index on (namespace, key) if missing.
func NewMongoDB(database *mongo.Database) (*MongoDBStore, error) {
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	collection := database.Collection("kv")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		// Log warning but don't fail - the index may already exist
		slog.Warn("failed to create MongoDB kv index", "error", err)
	}

	return &MongoDBStore{collection: collection}, nil
}

// Get returns the value for key in namespace, or ok=false if absent.
func (s *MongoDBStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var doc kvDoc
	err := s.collection.FindOne(ctx,
		bson.D{{Key: "namespace", Value: namespace}, {Key: "key", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, core.NewStorageError("kvstore.get", err)
	}
	return doc.Value, true, nil
}

// Put upserts the value for key in namespace.
func (s *MongoDBStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	doc := kvDoc{Namespace: namespace, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx,
		bson.D{{Key: "namespace", Value: namespace}, {Key: "key", Value: key}}, doc, opts)
	if err != nil {
		return core.NewStorageError("kvstore.put", err)
	}
	return nil
}

// Delete removes the key if present.
func (s *MongoDBStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.collection.DeleteOne(ctx,
		bson.D{{Key: "namespace", Value: namespace}, {Key: "key", Value: key}})
	if err != nil {
		return core.NewStorageError("kvstore.delete", err)
	}
	return nil
}

// List returns all entries under namespace.
func (s *MongoDBStore) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	cursor, err := s.collection.Find(ctx, bson.D{{Key: "namespace", Value: namespace}})
	if err != nil {
		return nil, core.NewStorageError("kvstore.list", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string][]byte)
	for cursor.Next(ctx) {
		var doc kvDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, core.NewStorageError("kvstore.list", err)
		}
		out[doc.Key] = doc.Value
	}
	if err := cursor.Err(); err != nil {
		return nil, core.NewStorageError("kvstore.list", err)
	}
	return out, nil
}

// ClearNamespace removes every entry under namespace.
func (s *MongoDBStore) ClearNamespace(ctx context.Context, namespace string) error {
	_, err := s.collection.DeleteMany(ctx, bson.D{{Key: "namespace", Value: namespace}})
	if err != nil {
		return core.NewStorageError("kvstore.clear", err)
	}
	return nil
}

// ReplaceNamespace swaps the namespace contents as a delete followed by an
// ordered bulk insert. MongoDB offers no cross-document transaction on
// standalone servers, so the swap is atomic from the caller's perspective
// only; a failure between the two steps is surfaced as a storage error.
func (s *MongoDBStore) ReplaceNamespace(ctx context.Context, namespace string, entries map[string][]byte) error {
	if _, err := s.collection.DeleteMany(ctx, bson.D{{Key: "namespace", Value: namespace}}); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entries))
	for key, value := range entries {
		docs = append(docs, kvDoc{Namespace: namespace, Key: key, Value: value, UpdatedAt: now})
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	return nil
}

// Close is a no-op: the client is owned by the storage layer.
func (s *MongoDBStore) Close() error {
	return nil
}
