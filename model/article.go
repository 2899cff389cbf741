package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article moderation states. New articles start as pending and are moved to
// published or rejected by an admin.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

var ValidStatuses = []string{StatusPending, StatusPublished, StatusRejected}

type Article struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	Publisher   string             `bson:"publisher" json:"publisher"`
	IsPremium   bool               `bson:"isPremium" json:"isPremium"`
	Status      string             `bson:"status" json:"status"`
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"`
	ViewCount   int64              `bson:"viewCount" json:"viewCount"`
	PostedAt    time.Time          `bson:"postedAt" json:"postedAt"`
}

// ArticleWithPoster is the projection produced by joining an article with the
// profile of the user who posted it.
type ArticleWithPoster struct {
	Article     `bson:",inline"`
	PosterName  string `bson:"posterName" json:"posterName"`
	PosterPhoto string `bson:"posterPhoto,omitempty" json:"posterPhoto,omitempty"`
}

// PublisherCount is one row of the count-by-publisher grouping.
type PublisherCount struct {
	Publisher string `bson:"_id" json:"publisher"`
	Count     int64  `bson:"count" json:"count"`
}
