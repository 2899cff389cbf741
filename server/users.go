package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/server/middlewares"
	. "github.com/ahadhasan/guardian-news-server/utils/log"
)

// IssueToken mints a bearer token for the submitted email. Clients call this
// right after sign-in.
func (h *Handler) IssueToken(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email required"})
		return
	}
	signed, err := h.Tokens.Issue(body.Email)
	if err != nil {
		Log.WithError(err).Error("fail to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CheckAdmin reports whether the caller is an admin. Self-only: the path
// email must match the token email, so one user cannot probe another's role.
func (h *Handler) CheckAdmin(c *gin.Context) {
	email := c.Param("email")
	if email != middlewares.CallerEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}
	user, err := h.Users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

// CreateUser inserts the user unless the email is already present, in which
// case it answers with a null inserted id. Concurrent creations with the
// same email can race past the existence check; the unique index on email
// rejects the loser.
func (h *Handler) CreateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil || user.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email required"})
		return
	}

	existing, err := h.Users.FindByEmail(c.Request.Context(), user.Email)
	if err != nil {
		storeError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
		return
	}

	user.CreatedAt = time.Now()
	id, err := h.Users.Insert(c.Request.Context(), &user)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

func (h *Handler) GrantAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Users.GrantAdmin(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateOutcome(res))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Users.Delete(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}
