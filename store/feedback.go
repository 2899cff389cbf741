package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahadhasan/guardian-news-server/model"
)

// FeedbackStore is append-only.
type FeedbackStore struct {
	coll *mongo.Collection
}

func (s *FeedbackStore) Insert(ctx context.Context, feedback *model.Feedback) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, feedback)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert feedback")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ListByEmailAndArticle returns the feedback rows a user left on one article.
func (s *FeedbackStore) ListByEmailAndArticle(ctx context.Context, email string, articleID primitive.ObjectID) ([]model.Feedback, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"email": email, "articleId": articleID})
	if err != nil {
		return nil, errors.Wrap(err, "fail to list feedback")
	}
	feedback := []model.Feedback{}
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, errors.Wrap(err, "fail to decode feedback")
	}
	return feedback, nil
}
