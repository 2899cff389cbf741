package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahadhasan/guardian-news-server/model"
)

// PaymentStore is the append-only subscription ledger.
type PaymentStore struct {
	coll *mongo.Collection
}

func (s *PaymentStore) Insert(ctx context.Context, payment *model.Payment) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert payment")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ListByEmail returns the payer's ledger rows, most recent first.
func (s *PaymentStore) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list payments")
	}
	payments := []model.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, errors.Wrap(err, "fail to decode payments")
	}
	return payments, nil
}
