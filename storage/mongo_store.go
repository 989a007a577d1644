package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type imageDocument struct {
	Name        string `bson:"_id"`
	Data        []byte `bson:"data"`
	ContentType string `bson:"content_type"`
}

// MongoStore keeps blobs as documents in an images collection, so the
// database holds the binary payload and MIME type alongside the catalog.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("images"),
	}
}

func (s *MongoStore) Store(ctx context.Context, name string, data []byte, contentType string) error {
	doc := imageDocument{Name: name, Data: data, ContentType: contentType}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": name}, doc, opts); err != nil {
		return fmt.Errorf("store image %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) Retrieve(ctx context.Context, name string) ([]byte, string, error) {
	var doc imageDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("load image %s: %w", name, err)
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = ContentTypeByExt(name)
	}
	return doc.Data, contentType, nil
}

func (s *MongoStore) Remove(ctx context.Context, name string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}
