package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahadhasan/guardian-news-server/model"
)

type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "fail to list users")
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "fail to decode users")
	}
	return users, nil
}

// FindByEmail returns nil without error when no user matches, so callers can
// tell "absent" apart from a store failure.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to find user by email")
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert user")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GrantAdmin sets role to admin on the user with the given id.
func (s *UserStore) GrantAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": model.RoleAdmin}},
	)
	return res, errors.Wrap(err, "fail to grant admin role")
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "fail to delete user")
}
