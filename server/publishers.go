package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahadhasan/guardian-news-server/model"
)

func (h *Handler) ListPublishers(c *gin.Context) {
	publishers, err := h.Publishers.List(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishers)
}

// AddPublisher appends to the publisher list. There is no update or delete
// route.
func (h *Handler) AddPublisher(c *gin.Context) {
	var publisher model.Publisher
	if err := c.ShouldBindJSON(&publisher); err != nil || publisher.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "publisher name required"})
		return
	}
	id, err := h.Publishers.Insert(c.Request.Context(), &publisher)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}
