package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User roles
const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleAdmin       = "admin"
	RoleSchoolStaff = "school-staff"
)

// User represents a control-plane user document
type User struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string        `bson:"name" json:"name"`
	Email           string        `bson:"email" json:"email"`
	Username        string        `bson:"username" json:"username"`
	PasswordHash    string        `bson:"password_hash" json:"-"`
	Image           string        `bson:"image,omitempty" json:"image,omitempty"`
	Phone           string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Role            string        `bson:"role,omitempty" json:"role,omitempty"`
	Gender          string        `bson:"gender,omitempty" json:"gender,omitempty"`
	CurrentSchoolID string        `bson:"current_school_id,omitempty" json:"current_school_id,omitempty"`
	Disabled        bool          `bson:"disabled" json:"disabled"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}
