// Package store is the canonical place for all document store access. It
// should not include:
// 1. Any request/response mapping
// 2. Any authorization logic
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Store owns the process-wide Mongo client. It is opened once at startup and
// closed on shutdown; handlers receive it by reference instead of touching
// package globals.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Users      *UserStore
	Articles   *ArticleStore
	Publishers *PublisherStore
	Feedback   *FeedbackStore
	Payments   *PaymentStore
	Queries    *QueryStore
}

// Open connects to the deployment at uri and pings it so a bad connection
// string fails at startup rather than on the first request.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "fail to ping mongo")
	}

	db := client.Database(dbName)
	s := &Store{client: client, db: db}
	s.Users = &UserStore{coll: db.Collection("users")}
	s.Articles = &ArticleStore{coll: db.Collection("articles")}
	s.Publishers = &PublisherStore{coll: db.Collection("publishers")}
	s.Feedback = &FeedbackStore{coll: db.Collection("feedback")}
	s.Payments = &PaymentStore{coll: db.Collection("payments")}
	s.Queries = &QueryStore{coll: db.Collection("productQuery")}
	return s, nil
}

// EnsureIndexes creates the unique index on users.email. The create-if-absent
// flow still does an existence check first; the index turns the
// check-then-insert race into a duplicate key error instead of a duplicate
// row.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "fail to create users.email index")
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
