package store

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahadhasan/guardian-news-server/model"
)

// QueryStore serves the product query surface, including the recommendation
// sub-documents embedded in each query.
type QueryStore struct {
	coll *mongo.Collection
}

// Search matches the term as a case-insensitive substring of the item or
// brand name. An empty term matches everything.
func (s *QueryStore) Search(ctx context.Context, term string) ([]model.ProductQuery, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"itemName": pattern},
			bson.M{"brandName": pattern},
		},
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "fail to search product queries")
	}
	queries := []model.ProductQuery{}
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, errors.Wrap(err, "fail to decode product queries")
	}
	return queries, nil
}

// ListAll returns every product query, most recent first.
func (s *QueryStore) ListAll(ctx context.Context) ([]model.ProductQuery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list product queries")
	}
	queries := []model.ProductQuery{}
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, errors.Wrap(err, "fail to decode product queries")
	}
	return queries, nil
}

// FindByID returns nil without error when no query matches.
func (s *QueryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductQuery, error) {
	var query model.ProductQuery
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&query)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to find product query")
	}
	return &query, nil
}

// ListByPoster returns the poster's queries, most recent first.
func (s *QueryStore) ListByPoster(ctx context.Context, email string) ([]model.ProductQuery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"posterInfo.userEmail": email}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list queries by poster")
	}
	queries := []model.ProductQuery{}
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, errors.Wrap(err, "fail to decode poster queries")
	}
	return queries, nil
}

func (s *QueryStore) Insert(ctx context.Context, query *model.ProductQuery) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, query)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert product query")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Replace applies a $set of the submitted fields, inserting when no query
// matches the id.
func (s *QueryStore) Replace(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	return res, errors.Wrap(err, "fail to update product query")
}

func (s *QueryStore) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "fail to delete product query")
}

// PushRecommendation atomically appends a recommendation to the query's
// embedded list.
func (s *QueryStore) PushRecommendation(ctx context.Context, queryID primitive.ObjectID, rec *model.Recommendation) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": queryID},
		bson.M{"$push": bson.M{"recommended": rec}},
	)
	return res, errors.Wrap(err, "fail to push recommendation")
}

// PullRecommendation atomically removes the recommendation matching both the
// child id and the author email. A mismatched email pulls nothing, so only
// the author can remove their own recommendation.
func (s *QueryStore) PullRecommendation(ctx context.Context, queryID, recID primitive.ObjectID, email string) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": queryID},
		bson.M{"$pull": bson.M{"recommended": bson.M{
			"_id":              recID,
			"recommenderEmail": email,
		}}},
	)
	return res, errors.Wrap(err, "fail to pull recommendation")
}
