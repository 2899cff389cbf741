package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ahadhasan/guardian-news-server/model"
	. "github.com/ahadhasan/guardian-news-server/utils/log"
)

// SearchQueries matches the term against item and brand names. This route
// historically answers 404 on a store failure instead of 500.
func (h *Handler) SearchQueries(c *gin.Context) {
	queries, err := h.Queries.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		Log.WithError(err).Error("store operation failed")
		c.JSON(http.StatusNotFound, gin.H{"message": "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": queries})
}

func (h *Handler) AllQueries(c *gin.Context) {
	queries, err := h.Queries.ListAll(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queries)
}

func (h *Handler) QueryDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	query, err := h.Queries.FindByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	if query == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "query not found"})
		return
	}
	c.JSON(http.StatusOK, query)
}

func (h *Handler) MyQueries(c *gin.Context) {
	queries, err := h.Queries.ListByPoster(c.Request.Context(), c.Param("email"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queries)
}

// AddQuery inserts the submitted query with an empty recommendation list.
func (h *Handler) AddQuery(c *gin.Context) {
	var query model.ProductQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid query"})
		return
	}
	query.Recommended = []model.Recommendation{}
	query.PostedAt = time.Now()

	id, err := h.Queries.Insert(c.Request.Context(), &query)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// UpdateQuery applies a $set of the entire submitted body, inserting when
// the id has no match.
func (h *Handler) UpdateQuery(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	delete(body, "_id")

	res, err := h.Queries.Replace(c.Request.Context(), id, bson.M(body))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

func (h *Handler) DeleteQuery(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Queries.Delete(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}

// AddRecommendation appends a recommendation to the query's embedded list,
// assigning it a fresh child id.
func (h *Handler) AddRecommendation(c *gin.Context) {
	queryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var rec model.Recommendation
	if err := c.ShouldBindJSON(&rec); err != nil || rec.RecommenderEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "recommenderEmail required"})
		return
	}
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now()

	res, err := h.Queries.PushRecommendation(c.Request.Context(), queryID, &rec)
	if err != nil {
		storeError(c, err)
		return
	}
	out := updateOutcome(res)
	out["recommendationId"] = rec.ID
	c.JSON(http.StatusOK, out)
}

// RemoveRecommendation pulls the recommendation matching the child id and
// the email query parameter. A different author's email pulls nothing, which
// is how cross-author deletion is prevented.
func (h *Handler) RemoveRecommendation(c *gin.Context) {
	queryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	recID, ok := parseID(c, "recommendationId")
	if !ok {
		return
	}
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email required"})
		return
	}

	res, err := h.Queries.PullRecommendation(c.Request.Context(), queryID, recID, email)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}
