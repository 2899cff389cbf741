package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is one row of the append-only subscription ledger. Amount is in
// minor currency units, matching what was charged through the processor.
type Payment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string             `bson:"email" json:"email"`
	Amount   int64              `bson:"amount" json:"amount"`
	Currency string             `bson:"currency" json:"currency"`
	IntentID string             `bson:"intentId" json:"intentId"`
	Period   string             `bson:"period,omitempty" json:"period,omitempty"`
	PaidAt   time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}
