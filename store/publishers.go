package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahadhasan/guardian-news-server/model"
)

// PublisherStore is append-only. There is no update or delete.
type PublisherStore struct {
	coll *mongo.Collection
}

func (s *PublisherStore) List(ctx context.Context) ([]model.Publisher, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "fail to list publishers")
	}
	publishers := []model.Publisher{}
	if err := cursor.All(ctx, &publishers); err != nil {
		return nil, errors.Wrap(err, "fail to decode publishers")
	}
	return publishers, nil
}

func (s *PublisherStore) Insert(ctx context.Context, publisher *model.Publisher) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, publisher)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert publisher")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}
