package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PosterInfo is the profile snapshot embedded in a product query at creation
// time.
type PosterInfo struct {
	UserName  string `bson:"userName" json:"userName"`
	UserEmail string `bson:"userEmail" json:"userEmail"`
	UserPhoto string `bson:"userPhoto,omitempty" json:"userPhoto,omitempty"`
}

// Recommendation is an embedded child of a product query. It carries its own
// identifier and author email so it can be removed only by its author.
type Recommendation struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Title            string             `bson:"title" json:"title"`
	ProductName      string             `bson:"productName,omitempty" json:"productName,omitempty"`
	Reason           string             `bson:"reason,omitempty" json:"reason,omitempty"`
	RecommenderEmail string             `bson:"recommenderEmail" json:"recommenderEmail"`
	RecommenderName  string             `bson:"recommenderName,omitempty" json:"recommenderName,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type ProductQuery struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ItemName    string             `bson:"itemName" json:"itemName"`
	BrandName   string             `bson:"brandName" json:"brandName"`
	ImageURL    string             `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	QueryTitle  string             `bson:"queryTitle,omitempty" json:"queryTitle,omitempty"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	PosterInfo  PosterInfo         `bson:"posterInfo" json:"posterInfo"`
	Recommended []Recommendation   `bson:"recommended" json:"recommended"`
	PostedAt    time.Time          `bson:"postedAt,omitempty" json:"postedAt,omitempty"`
}
