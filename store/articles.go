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

type ArticleStore struct {
	coll *mongo.Collection
}

// Search matches the term as a case-insensitive substring of the title or
// description, optionally narrowed by exact tag and publisher. An empty term
// matches everything.
func (s *ArticleStore) Search(ctx context.Context, term, tag, publisher string) ([]model.Article, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		},
	}
	if tag != "" {
		filter["tags"] = tag
	}
	if publisher != "" {
		filter["publisher"] = publisher
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "fail to search articles")
	}
	articles := []model.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, errors.Wrap(err, "fail to decode articles")
	}
	return articles, nil
}

// ListWithPoster joins every article with the profile of its poster by email
// equality. The $unwind stage drops articles whose author has no user
// document; that inner-join behavior is intentional and matches what clients
// expect of the listing.
func (s *ArticleStore) ListWithPoster(ctx context.Context) ([]model.ArticleWithPoster, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "authorEmail"},
			{Key: "foreignField", Value: "email"},
			{Key: "as", Value: "poster"},
		}}},
		{{Key: "$unwind", Value: "$poster"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "posterName", Value: "$poster.name"},
			{Key: "posterPhoto", Value: "$poster.photoURL"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "poster", Value: 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "fail to join articles with posters")
	}
	out := []model.ArticleWithPoster{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "fail to decode joined articles")
	}
	return out, nil
}

// CountByPublisher groups articles by publisher label. Sorted by count
// descending then label so the output order is stable.
func (s *ArticleStore) CountByPublisher(ctx context.Context) ([]model.PublisherCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$publisher"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "fail to count articles by publisher")
	}
	counts := []model.PublisherCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, errors.Wrap(err, "fail to decode publisher counts")
	}
	return counts, nil
}

// Trending returns the limit most viewed articles.
func (s *ArticleStore) Trending(ctx context.Context, limit int64) ([]model.Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "viewCount", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list trending articles")
	}
	articles := []model.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, errors.Wrap(err, "fail to decode trending articles")
	}
	return articles, nil
}

// FindByID returns nil without error when no article matches.
func (s *ArticleStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Article, error) {
	var article model.Article
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to find article")
	}
	return &article, nil
}

// ListByAuthor returns the author's articles, most recent first.
func (s *ArticleStore) ListByAuthor(ctx context.Context, email string) ([]model.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"authorEmail": email}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list articles by author")
	}
	articles := []model.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, errors.Wrap(err, "fail to decode author articles")
	}
	return articles, nil
}

func (s *ArticleStore) Insert(ctx context.Context, article *model.Article) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, article)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "fail to insert article")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *ArticleStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	return res, errors.Wrap(err, "fail to set article status")
}

func (s *ArticleStore) SetPremium(ctx context.Context, id primitive.ObjectID, premium bool) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isPremium": premium}},
	)
	return res, errors.Wrap(err, "fail to set article premium flag")
}

// Replace applies a $set of the submitted fields, inserting when no article
// matches the id.
func (s *ArticleStore) Replace(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	return res, errors.Wrap(err, "fail to update article")
}

// Delete removes the article only. Feedback rows referencing it are
// tolerated as orphans.
func (s *ArticleStore) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "fail to delete article")
}

// IncrementViews bumps the view counter by one. The counter only ever grows.
func (s *ArticleStore) IncrementViews(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"viewCount": 1}},
	)
	return res, errors.Wrap(err, "fail to increment view count")
}
