package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ahadhasan/guardian-news-server/model"
)

func (h *Handler) AddFeedback(c *gin.Context) {
	var feedback model.Feedback
	if err := c.ShouldBindJSON(&feedback); err != nil || feedback.Email == "" || feedback.ArticleID.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and articleId required"})
		return
	}
	feedback.CreatedAt = time.Now()

	id, err := h.Feedback.Insert(c.Request.Context(), &feedback)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// GetFeedback returns the feedback a user left on one article, keyed by the
// (email, articleId) query parameters.
func (h *Handler) GetFeedback(c *gin.Context) {
	articleID, err := primitive.ObjectIDFromHex(c.Query("articleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid articleId"})
		return
	}
	feedback, err := h.Feedback.ListByEmailAndArticle(c.Request.Context(), c.Query("email"), articleID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}
