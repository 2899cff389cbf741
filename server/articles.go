package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/utils"
)

const trendingLimit = 6

// SearchArticles filters by a case-insensitive substring of title or
// description, with optional exact tag and publisher narrowing. An empty
// search term matches every article. The tag is taken from the "filter"
// query parameter, with "tag" kept as an alias.
func (h *Handler) SearchArticles(c *gin.Context) {
	tag := c.Query("filter")
	if tag == "" {
		tag = c.Query("tag")
	}
	articles, err := h.Articles.Search(
		c.Request.Context(),
		c.Query("search"),
		tag,
		c.Query("publisher"),
	)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// AllArticles returns every article joined with its poster's profile.
// Articles whose author has no user document are dropped by the join.
func (h *Handler) AllArticles(c *gin.Context) {
	articles, err := h.Articles.ListWithPoster(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) ArticleDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	article, err := h.Articles.FindByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "article not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *Handler) MyArticles(c *gin.Context) {
	articles, err := h.Articles.ListByAuthor(c.Request.Context(), c.Param("email"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// AddArticle inserts the submitted article with server-side defaults: zeroed
// view counter, pending status, premium off.
func (h *Handler) AddArticle(c *gin.Context) {
	var article model.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid article"})
		return
	}
	article.ViewCount = 0
	article.Status = model.StatusPending
	article.IsPremium = false
	article.PostedAt = time.Now()
	if article.Tags == nil {
		article.Tags = []string{}
	}

	id, err := h.Articles.Insert(c.Request.Context(), &article)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// UpdateArticle applies a $set of the entire submitted body, inserting when
// the id has no match.
func (h *Handler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	// The filter owns the identifier.
	delete(body, "_id")

	res, err := h.Articles.Replace(c.Request.Context(), id, bson.M(body))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

// DeleteArticle removes the article. Feedback referencing it is left in
// place.
func (h *Handler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Articles.Delete(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}

func (h *Handler) SetArticleStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !utils.ContainsString(model.ValidStatuses, body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
		return
	}
	res, err := h.Articles.SetStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

func (h *Handler) SetArticlePremium(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IsPremium bool `json:"isPremium"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	res, err := h.Articles.SetPremium(c.Request.Context(), id, body.IsPremium)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

func (h *Handler) IncrementViewCount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Articles.IncrementViews(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

func (h *Handler) TrendingArticles(c *gin.Context) {
	articles, err := h.Articles.Trending(c.Request.Context(), trendingLimit)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) PublisherArticleCounts(c *gin.Context) {
	counts, err := h.Articles.CountByPublisher(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
