package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahadhasan/guardian-news-server/model"
	"github.com/ahadhasan/guardian-news-server/payments"
	"github.com/ahadhasan/guardian-news-server/server/middlewares"
	. "github.com/ahadhasan/guardian-news-server/utils/log"
)

// CreatePaymentIntent asks the processor for a card payment intent over the
// submitted price and returns the client secret verbatim.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var body struct {
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "positive price required"})
		return
	}

	intent, err := h.Processor.CreateIntent(c.Request.Context(), payments.MinorUnits(body.Price))
	if err != nil {
		Log.WithError(err).Error("payment intent creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// MyPayments returns the caller's ledger rows. Self-only: the path email must
// match the token email.
func (h *Handler) MyPayments(c *gin.Context) {
	email := c.Param("email")
	if email != middlewares.CallerEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}
	rows, err := h.Payments.ListByEmail(c.Request.Context(), email)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// RecordPayment inserts a ledger row only after re-checking the intent with
// the processor: the intent must exist, have succeeded, and its amount must
// match the submitted row. Without this check any client could forge a
// payment record.
func (h *Handler) RecordPayment(c *gin.Context) {
	var payment model.Payment
	if err := c.ShouldBindJSON(&payment); err != nil || payment.Email == "" || payment.IntentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and intentId required"})
		return
	}

	intent, err := h.Processor.GetIntent(c.Request.Context(), payment.IntentID)
	if err != nil {
		Log.WithError(err).Error("payment intent lookup failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown payment intent"})
		return
	}
	if !intent.Succeeded || intent.Amount != payment.Amount {
		c.JSON(http.StatusBadRequest, gin.H{"message": "payment not verified"})
		return
	}

	payment.Currency = payments.Currency
	payment.PaidAt = time.Now()

	id, err := h.Payments.Insert(c.Request.Context(), &payment)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}
