package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// School represents a school directory entry in the control plane.
// DatabaseName is the isolated tenant namespace all of the school's
// documents live in.
type School struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID    string        `bson:"creator_id" json:"creator_id"`
	Name         string        `bson:"name" json:"name"`
	Username     string        `bson:"username" json:"username"`
	Logo         string        `bson:"logo,omitempty" json:"logo,omitempty"`
	SchoolType   string        `bson:"school_type,omitempty" json:"school_type,omitempty"`
	Affiliation  string        `bson:"affiliation,omitempty" json:"affiliation,omitempty"`
	DatabaseName string        `bson:"database_name" json:"database_name"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}
