package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Publisher struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
	Logo string             `bson:"logo,omitempty" json:"logo,omitempty"`
}
