package handler

import (
	"fmt"
	"net/http"
	"time"

	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/pkg/logger"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	classTimetablesCollection = "class_timetables"
	studentsCollection        = "students"
)

var timetableDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// GenerateClassTimetable writes a blank default timetable for a class into
// the tenant database and broadcasts the creation
func GenerateClassTimetable(c echo.Context) error {
	log := logger.FromContext(c)

	school, ok := middleware.SchoolFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "School token required"})
	}

	db, ok := middleware.TenantDBFrom(c)
	if !ok {
		log.Error("No tenant database resolved for school-scoped route",
			zap.String("school_id", school.ID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "tenant database not resolved"})
	}

	classID := c.Param("class_id")
	if classID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "class_id is required"})
	}

	now := time.Now().UTC()
	timetable := model.ClassTimetable{
		ID:           bson.NewObjectID(),
		ClassID:      classID,
		AcademicYear: fmt.Sprintf("%d-%d", now.Year(), now.Year()+1),
		Days:         defaultTimetableStructure(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if _, err := db.Collection(classTimetablesCollection).InsertOne(c.Request().Context(), timetable); err != nil {
		log.Error("Failed to store generated timetable",
			zap.String("class_id", classID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "timetable generation failed"})
	}

	log.Info("Class timetable generated",
		zap.String("class_id", classID),
		zap.String("database_name", school.DatabaseName))

	// Broadcast creation without holding up the response
	go bus.BroadcastCreated("class_timetable", timetable.ID.Hex(), timetable)

	return c.JSON(http.StatusCreated, timetable)
}

// ListStudents returns the students stored in the tenant database
func ListStudents(c echo.Context) error {
	log := logger.FromContext(c)

	db, ok := middleware.TenantDBFrom(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "tenant database not resolved"})
	}

	ctx := c.Request().Context()

	defer prometheus.TrackDBOperation("query")(time.Now())
	cursor, err := db.Collection(studentsCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Error("Failed to list students", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list students"})
	}

	students := []model.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		log.Error("Failed to decode students", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list students"})
	}

	return c.JSON(http.StatusOK, students)
}

// defaultTimetableStructure builds a blank Monday-Friday grid of periods
func defaultTimetableStructure() []model.TimetableDay {
	slots := [][2]string{
		{"08:00", "08:45"},
		{"08:45", "09:30"},
		{"09:30", "10:15"},
		{"10:30", "11:15"},
		{"11:15", "12:00"},
		{"13:00", "13:45"},
		{"13:45", "14:30"},
		{"14:30", "15:15"},
	}

	days := make([]model.TimetableDay, 0, len(timetableDays))
	for _, day := range timetableDays {
		periods := make([]model.TimetablePeriod, 0, len(slots))
		for _, slot := range slots {
			periods = append(periods, model.TimetablePeriod{
				StartTime: slot[0],
				EndTime:   slot[1],
			})
		}
		days = append(days, model.TimetableDay{Day: day, Periods: periods})
	}
	return days
}
