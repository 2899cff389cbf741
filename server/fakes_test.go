package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/payments"
	"github.com/ahadhasan/guardian-news-server/server/token"
	"github.com/ahadhasan/guardian-news-server/utils"
)

// In-memory collaborators standing in for the document store and the payment
// processor. Each fake returns its injected err from every method so store
// failure paths can be exercised.

type fakeUsers struct {
	users []model.User
	err   error
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUsers) Insert(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, *user)
	return user.ID, nil
}

func (f *fakeUsers) GrantAdmin(_ context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = model.RoleAdmin
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

type fakeArticles struct {
	articles []model.Article
	posters  map[string]model.User
	err      error
}

func (f *fakeArticles) Search(_ context.Context, term, tag, publisher string) ([]model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(term)
	out := []model.Article{}
	for _, a := range f.articles {
		if !strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			continue
		}
		if tag != "" && !utils.ContainsString(a.Tags, tag) {
			continue
		}
		if publisher != "" && a.Publisher != publisher {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeArticles) ListWithPoster(context.Context) ([]model.ArticleWithPoster, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Inner join: articles without a poster profile are dropped.
	out := []model.ArticleWithPoster{}
	for _, a := range f.articles {
		poster, ok := f.posters[a.AuthorEmail]
		if !ok {
			continue
		}
		out = append(out, model.ArticleWithPoster{
			Article:     a,
			PosterName:  poster.Name,
			PosterPhoto: poster.PhotoURL,
		})
	}
	return out, nil
}

func (f *fakeArticles) CountByPublisher(context.Context) ([]model.PublisherCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int64{}
	for _, a := range f.articles {
		counts[a.Publisher]++
	}
	out := []model.PublisherCount{}
	for publisher, count := range counts {
		out = append(out, model.PublisherCount{Publisher: publisher, Count: count})
	}
	return out, nil
}

func (f *fakeArticles) Trending(_ context.Context, limit int64) ([]model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	sorted := append([]model.Article{}, f.articles...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].ViewCount > sorted[i].ViewCount {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	if int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (f *fakeArticles) FindByID(_ context.Context, id primitive.ObjectID) (*model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			return &f.articles[i], nil
		}
	}
	return nil, nil
}

func (f *fakeArticles) ListByAuthor(_ context.Context, email string) ([]model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Article{}
	for i := len(f.articles) - 1; i >= 0; i-- {
		if f.articles[i].AuthorEmail == email {
			out = append(out, f.articles[i])
		}
	}
	return out, nil
}

func (f *fakeArticles) Insert(_ context.Context, article *model.Article) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	article.ID = primitive.NewObjectID()
	f.articles = append(f.articles, *article)
	return article.ID, nil
}

func (f *fakeArticles) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].Status = status
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeArticles) SetPremium(_ context.Context, id primitive.ObjectID, premium bool) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].IsPremium = premium
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeArticles) Replace(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			if title, ok := fields["title"].(string); ok {
				f.articles[i].Title = title
			}
			if description, ok := fields["description"].(string); ok {
				f.articles[i].Description = description
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	// Upsert semantics.
	f.articles = append(f.articles, model.Article{ID: id})
	return &mongo.UpdateResult{UpsertedID: id}, nil
}

func (f *fakeArticles) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles = append(f.articles[:i], f.articles[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (f *fakeArticles) IncrementViews(_ context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].ViewCount++
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

type fakePublishers struct {
	publishers []model.Publisher
	err        error
}

func (f *fakePublishers) List(context.Context) ([]model.Publisher, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.publishers, nil
}

func (f *fakePublishers) Insert(_ context.Context, publisher *model.Publisher) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	publisher.ID = primitive.NewObjectID()
	f.publishers = append(f.publishers, *publisher)
	return publisher.ID, nil
}

type fakeFeedback struct {
	rows []model.Feedback
	err  error
}

func (f *fakeFeedback) Insert(_ context.Context, feedback *model.Feedback) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	feedback.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *feedback)
	return feedback.ID, nil
}

func (f *fakeFeedback) ListByEmailAndArticle(_ context.Context, email string, articleID primitive.ObjectID) ([]model.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Feedback{}
	for _, row := range f.rows {
		if row.Email == email && row.ArticleID == articleID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakePayments struct {
	rows []model.Payment
	err  error
}

func (f *fakePayments) Insert(_ context.Context, payment *model.Payment) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	payment.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *payment)
	return payment.ID, nil
}

func (f *fakePayments) ListByEmail(_ context.Context, email string) ([]model.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Payment{}
	for _, row := range f.rows {
		if row.Email == email {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeQueries struct {
	queries []model.ProductQuery
	err     error
}

func (f *fakeQueries) Search(_ context.Context, term string) ([]model.ProductQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(term)
	out := []model.ProductQuery{}
	for _, q := range f.queries {
		if strings.Contains(strings.ToLower(q.ItemName), needle) ||
			strings.Contains(strings.ToLower(q.BrandName), needle) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQueries) ListAll(context.Context) ([]model.ProductQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]model.ProductQuery{}, f.queries...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *fakeQueries) FindByID(_ context.Context, id primitive.ObjectID) (*model.ProductQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.queries {
		if f.queries[i].ID == id {
			return &f.queries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeQueries) ListByPoster(_ context.Context, email string) ([]model.ProductQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.ProductQuery{}
	for i := len(f.queries) - 1; i >= 0; i-- {
		if f.queries[i].PosterInfo.UserEmail == email {
			out = append(out, f.queries[i])
		}
	}
	return out, nil
}

func (f *fakeQueries) Insert(_ context.Context, query *model.ProductQuery) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	query.ID = primitive.NewObjectID()
	f.queries = append(f.queries, *query)
	return query.ID, nil
}

func (f *fakeQueries) Replace(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.queries {
		if f.queries[i].ID == id {
			if itemName, ok := fields["itemName"].(string); ok {
				f.queries[i].ItemName = itemName
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	f.queries = append(f.queries, model.ProductQuery{ID: id})
	return &mongo.UpdateResult{UpsertedID: id}, nil
}

func (f *fakeQueries) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.queries {
		if f.queries[i].ID == id {
			f.queries = append(f.queries[:i], f.queries[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (f *fakeQueries) PushRecommendation(_ context.Context, queryID primitive.ObjectID, rec *model.Recommendation) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.queries {
		if f.queries[i].ID == queryID {
			f.queries[i].Recommended = append(f.queries[i].Recommended, *rec)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeQueries) PullRecommendation(_ context.Context, queryID, recID primitive.ObjectID, email string) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.queries {
		if f.queries[i].ID != queryID {
			continue
		}
		for j := range f.queries[i].Recommended {
			rec := f.queries[i].Recommended[j]
			if rec.ID == recID && rec.RecommenderEmail == email {
				f.queries[i].Recommended = append(
					f.queries[i].Recommended[:j],
					f.queries[i].Recommended[j+1:]...)
				return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
			}
		}
		return &mongo.UpdateResult{MatchedCount: 1}, nil
	}
	return &mongo.UpdateResult{}, nil
}

type fakeProcessor struct {
	intents map[string]*payments.Intent
	created []int64
	err     error
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amount int64) (*payments.Intent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.intents == nil {
		f.intents = map[string]*payments.Intent{}
	}
	id := primitive.NewObjectID().Hex()
	intent := &payments.Intent{
		ID:           "pi_" + id,
		ClientSecret: "pi_" + id + "_secret",
		Amount:       amount,
		Status:       "requires_payment_method",
	}
	f.intents[intent.ID] = intent
	f.created = append(f.created, amount)
	return intent, nil
}

func (f *fakeProcessor) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	if f.err != nil {
		return nil, f.err
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, context.Canceled
	}
	return intent, nil
}

// testEnv bundles a router with its fakes so tests can reach in.
type testEnv struct {
	router     *gin.Engine
	maker      *token.Maker
	users      *fakeUsers
	articles   *fakeArticles
	publishers *fakePublishers
	feedback   *fakeFeedback
	payments   *fakePayments
	queries    *fakeQueries
	processor  *fakeProcessor
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		maker:      token.NewMaker("test-secret", time.Hour),
		users:      &fakeUsers{},
		articles:   &fakeArticles{posters: map[string]model.User{}},
		publishers: &fakePublishers{},
		feedback:   &fakeFeedback{},
		payments:   &fakePayments{},
		queries:    &fakeQueries{},
		processor:  &fakeProcessor{},
	}
	handler := &Handler{
		Users:      env.users,
		Articles:   env.articles,
		Publishers: env.publishers,
		Feedback:   env.feedback,
		Payments:   env.payments,
		Queries:    env.queries,
		Processor:  env.processor,
		Tokens:     env.maker,
	}
	env.router = NewRouter(handler)
	return env
}

func (env *testEnv) tokenFor(email string) string {
	signed, err := env.maker.Issue(email)
	if err != nil {
		panic(err)
	}
	return signed
}
