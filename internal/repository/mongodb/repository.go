// Package mongodb is the remote document store adapter. Collections carry
// string ids (hex object ids assigned on insert) so documents round-trip
// unchanged through the local fallback format.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository implements the store contract against MongoDB.
type Repository struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

func (r *Repository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// LoadCollection decodes every document into out, ordered by the "date"
// field descending with "createdAt" breaking ties.
func (r *Repository) LoadCollection(ctx context.Context, collection string, out any) error {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cur, err := r.coll(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return fmt.Errorf("load collection %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

// Create inserts doc with a freshly assigned hex id and returns that id.
func (r *Repository) Create(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document for %s: %w", collection, err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return "", fmt.Errorf("encode document for %s: %w", collection, err)
	}

	id := primitive.NewObjectID().Hex()
	m["_id"] = id

	if _, err := r.coll(collection).InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Update applies a $set patch. A missing id matches zero documents and is
// accepted silently.
func (r *Repository) Update(ctx context.Context, collection string, id string, patch map[string]any) error {
	_, err := r.coll(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Remove deletes one document by id; deleting an absent id is a no-op.
func (r *Repository) Remove(ctx context.Context, collection string, id string) error {
	_, err := r.coll(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetSingleton fetches a fixed-id document such as site/content.
func (r *Repository) GetSingleton(ctx context.Context, collection, id string, out any) (bool, error) {
	err := r.coll(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return true, nil
}

// SetSingleton upserts a fixed-id document.
func (r *Repository) SetSingleton(ctx context.Context, collection, id string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	m["_id"] = id

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, opts); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
