package handler

import (
	"net/http"
	"time"

	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const schoolsCollection = "schools"

// CreateSchool registers a new school in the control-plane directory and
// reserves its tenant database name
func CreateSchool(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	// Parse request
	var req struct {
		Name        string `json:"name"`
		Logo        string `json:"logo,omitempty"`
		SchoolType  string `json:"school_type,omitempty"`
		Affiliation string `json:"affiliation,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse school creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}

	now := time.Now().UTC()
	id := bson.NewObjectID()
	school := model.School{
		ID:           id,
		CreatorID:    claims.ID,
		Name:         req.Name,
		Username:     generateUsername(req.Name),
		Logo:         req.Logo,
		SchoolType:   req.SchoolType,
		Affiliation:  req.Affiliation,
		DatabaseName: database.SchoolDBName(id.Hex()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	schools := database.GetManager().MainDB().Collection(schoolsCollection)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if _, err := schools.InsertOne(c.Request().Context(), school); err != nil {
		log.Error("Failed to create school", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "school creation failed"})
	}

	log.Info("School created",
		zap.String("school_id", school.ID.Hex()),
		zap.String("database_name", school.DatabaseName))

	// Broadcast creation without holding up the response
	go bus.BroadcastCreated("school", school.ID.Hex(), school)

	return c.JSON(http.StatusCreated, school)
}

// IssueSchoolToken elects a school context for the authenticated user and
// returns a signed school token bound to that school's tenant database
func IssueSchoolToken(c echo.Context) error {
	log := logger.FromContext(c)

	if _, ok := middleware.UserFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid school id"})
	}

	schools := database.GetManager().MainDB().Collection(schoolsCollection)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var school model.School
	if err := schools.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&school); err != nil {
		log.Error("School not found", zap.String("school_id", id.Hex()))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "school not found"})
	}

	createdAt := school.CreatedAt
	token, err := jwtutil.IssueSchoolToken(jwtutil.SchoolClaims{
		ID:           school.ID.Hex(),
		CreatorID:    school.CreatorID,
		Name:         school.Name,
		Username:     school.Username,
		Logo:         school.Logo,
		SchoolType:   school.SchoolType,
		Affiliation:  school.Affiliation,
		DatabaseName: school.DatabaseName,
		CreatedAt:    &createdAt,
	})
	if err != nil {
		log.Error("Failed to issue school token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token error"})
	}

	prometheus.SchoolTokenCounter.Inc()
	log.Info("School token issued",
		zap.String("school_id", school.ID.Hex()),
		zap.String("database_name", school.DatabaseName))

	return c.JSON(http.StatusOK, echo.Map{
		"school_token": token,
		"school":       school,
	})
}
