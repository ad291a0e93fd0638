package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TimetablePeriod is one slot in a school day
type TimetablePeriod struct {
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
	SubjectID string `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	TeacherID string `bson:"teacher_id,omitempty" json:"teacher_id,omitempty"`
}

// TimetableDay groups the periods of a weekday
type TimetableDay struct {
	Day     string            `bson:"day" json:"day"`
	Periods []TimetablePeriod `bson:"periods" json:"periods"`
}

// ClassTimetable is a per-class weekly timetable stored in a tenant database
type ClassTimetable struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClassID      string         `bson:"class_id" json:"class_id"`
	AcademicYear string         `bson:"academic_year" json:"academic_year"`
	Days         []TimetableDay `bson:"days" json:"days"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

// Student is a school-scoped student record stored in a tenant database
type Student struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email,omitempty" json:"email,omitempty"`
	ClassID   string        `bson:"class_id,omitempty" json:"class_id,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
