// Package server binds the HTTP surface: every route is a direct translation
// of one request into one store or processor call.
package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/payments"
	"github.com/ahadhasan/guardian-news-server/server/middlewares"
	"github.com/ahadhasan/guardian-news-server/server/token"
	"github.com/ahadhasan/guardian-news-server/store"
	. "github.com/ahadhasan/guardian-news-server/utils/log"
)

// Browser clients allowed to send credentialed requests.
var allowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"https://guardian-news-ahad.netlify.app",
	"https://ahad-guardian-news.web.app",
	"https://ahad-guardian-news.firebaseapp.com",
}

type userStore interface {
	middlewares.UserFinder
	List(ctx context.Context) ([]model.User, error)
	Insert(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	GrantAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
}

type articleStore interface {
	Search(ctx context.Context, term, tag, publisher string) ([]model.Article, error)
	ListWithPoster(ctx context.Context) ([]model.ArticleWithPoster, error)
	CountByPublisher(ctx context.Context) ([]model.PublisherCount, error)
	Trending(ctx context.Context, limit int64) ([]model.Article, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Article, error)
	ListByAuthor(ctx context.Context, email string) ([]model.Article, error)
	Insert(ctx context.Context, article *model.Article) (primitive.ObjectID, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*mongo.UpdateResult, error)
	SetPremium(ctx context.Context, id primitive.ObjectID, premium bool) (*mongo.UpdateResult, error)
	Replace(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error)
}

type publisherStore interface {
	List(ctx context.Context) ([]model.Publisher, error)
	Insert(ctx context.Context, publisher *model.Publisher) (primitive.ObjectID, error)
}

type feedbackStore interface {
	Insert(ctx context.Context, feedback *model.Feedback) (primitive.ObjectID, error)
	ListByEmailAndArticle(ctx context.Context, email string, articleID primitive.ObjectID) ([]model.Feedback, error)
}

type paymentStore interface {
	Insert(ctx context.Context, payment *model.Payment) (primitive.ObjectID, error)
	ListByEmail(ctx context.Context, email string) ([]model.Payment, error)
}

type queryStore interface {
	Search(ctx context.Context, term string) ([]model.ProductQuery, error)
	ListAll(ctx context.Context) ([]model.ProductQuery, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductQuery, error)
	ListByPoster(ctx context.Context, email string) ([]model.ProductQuery, error)
	Insert(ctx context.Context, query *model.ProductQuery) (primitive.ObjectID, error)
	Replace(ctx context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	PushRecommendation(ctx context.Context, queryID primitive.ObjectID, rec *model.Recommendation) (*mongo.UpdateResult, error)
	PullRecommendation(ctx context.Context, queryID, recID primitive.ObjectID, email string) (*mongo.UpdateResult, error)
}

// Handler holds every collaborator a route needs. Collaborators are
// interfaces so tests can substitute fakes.
type Handler struct {
	Users      userStore
	Articles   articleStore
	Publishers publisherStore
	Feedback   feedbackStore
	Payments   paymentStore
	Queries    queryStore
	Processor  payments.Processor
	Tokens     *token.Maker
}

func NewHandler(s *store.Store, processor payments.Processor, maker *token.Maker) *Handler {
	return &Handler{
		Users:      s.Users,
		Articles:   s.Articles,
		Publishers: s.Publishers,
		Feedback:   s.Feedback,
		Payments:   s.Payments,
		Queries:    s.Queries,
		Processor:  processor,
		Tokens:     maker,
	}
}

// NewRouter builds the gin engine with CORS and every route bound to its
// gates.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "The Guardian News server is running")
	})

	router.POST("/jwt", h.IssueToken)

	authed := middlewares.Authenticated(h.Tokens)
	admin := middlewares.AdminOnly(h.Users)

	// users
	router.GET("/users", authed, admin, h.ListUsers)
	router.GET("/users/admin/:email", authed, h.CheckAdmin)
	router.POST("/users", h.CreateUser)
	router.PATCH("/users/admin/:id", authed, admin, h.GrantAdmin)
	router.DELETE("/users/:id", authed, admin, h.DeleteUser)

	// articles
	router.GET("/articleSearch", h.SearchArticles)
	router.GET("/allArticles", h.AllArticles)
	router.GET("/articleDetails/:id", h.ArticleDetails)
	router.GET("/myArticles/:email", h.MyArticles)
	router.POST("/addArticle", h.AddArticle)
	router.PUT("/updateArticle/:id", h.UpdateArticle)
	router.DELETE("/deleteArticle/:id", h.DeleteArticle)
	router.PATCH("/articleStatus/:id", authed, admin, h.SetArticleStatus)
	router.PATCH("/articlePremium/:id", authed, admin, h.SetArticlePremium)
	router.PATCH("/incrementViewCount/:id", h.IncrementViewCount)
	router.GET("/trendingArticles", h.TrendingArticles)
	router.GET("/publisherArticleCounts", h.PublisherArticleCounts)

	// publishers
	router.GET("/publishers", h.ListPublishers)
	router.POST("/publishers", authed, admin, h.AddPublisher)

	// feedback
	router.POST("/feedback", h.AddFeedback)
	router.GET("/feedback", h.GetFeedback)

	// payments
	router.POST("/create-payment-intent", h.CreatePaymentIntent)
	router.GET("/payments/:email", authed, h.MyPayments)
	router.POST("/payments", h.RecordPayment)

	// product queries
	router.GET("/products", h.SearchQueries)
	router.GET("/getSingleQuery", h.AllQueries)
	router.GET("/queryDetails/:id", h.QueryDetails)
	router.GET("/mySingleQuery/:email", h.MyQueries)
	router.POST("/addSingleQuery", h.AddQuery)
	router.PUT("/updateQueryItem/:id", h.UpdateQuery)
	router.DELETE("/deleteQueryItem/:id", h.DeleteQuery)
	router.POST("/recommendations/:id", h.AddRecommendation)
	router.DELETE("/recommendations/:id/:recommendationId", h.RemoveRecommendation)

	return router
}

// parseID decodes the :id path parameter, aborting with 400 when it is not a
// valid object id.
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// storeError is the uniform catch for failed store calls: log the wrapped
// error, answer 500 with a generic message.
func storeError(c *gin.Context, err error) {
	Log.WithError(err).Error("store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
}

// updateOutcome maps a driver update result to the response body.
func updateOutcome(res *mongo.UpdateResult) gin.H {
	out := gin.H{
		"matchedCount":  res.MatchedCount,
		"modifiedCount": res.ModifiedCount,
	}
	if res.UpsertedID != nil {
		out["upsertedId"] = res.UpsertedID
	}
	return out
}
