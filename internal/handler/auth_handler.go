package handler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const usersCollection = "users"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Register handles control-plane user registration
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.Name == "" || req.Password == "" || !emailPattern.MatchString(req.Email) {
		log.Error("Invalid registration data", zap.String("email", req.Email))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, email and password are required"})
	}

	users := database.GetManager().MainDB().Collection(usersCollection)
	ctx := c.Request().Context()

	// Ensure email not already taken - track DB query
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	err := users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
	}
	if err != mongo.ErrNoDocuments {
		log.Error("Failed to check existing user", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "registration failed"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "registration failed"})
	}

	now := time.Now().UTC()
	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		Username:     generateUsername(req.Name),
		PasswordHash: string(hashedPassword),
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Save to database - track DB insert operation
	defer prometheus.TrackDBOperation("insert")(time.Now())
	result, err := users.InsertOne(ctx, user)
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "registration failed"})
	}
	user.ID = result.InsertedID.(bson.ObjectID)

	token, err := jwtutil.IssueUserToken(claimsForUser(&user))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token error"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles control-plane user authentication
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	users := database.GetManager().MainDB().Collection(usersCollection)
	ctx := c.Request().Context()

	// Find user in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	token, err := jwtutil.IssueUserToken(claimsForUser(&user))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token error"})
	}

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the fresh profile of the authenticated principal
func Me(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := bson.ObjectIDFromHex(claims.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}

	users := database.GetManager().MainDB().Collection(usersCollection)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := users.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&user); err != nil {
		log.Error("User not found", zap.String("user_id", claims.ID))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}

// EnsureUserIndexes creates the control-plane user indexes at startup
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// claimsForUser maps a user document onto token claims
func claimsForUser(user *model.User) jwtutil.UserClaims {
	return jwtutil.UserClaims{
		ID:              user.ID.Hex(),
		Name:            user.Name,
		Email:           user.Email,
		Username:        user.Username,
		Image:           user.Image,
		Phone:           user.Phone,
		Role:            user.Role,
		Gender:          user.Gender,
		CurrentSchoolID: user.CurrentSchoolID,
	}
}

// generateUsername derives a unique slug from a display name
func generateUsername(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), ".")
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, slug)
	return fmt.Sprintf("%s-%s", slug, uuid.New().String()[:4])
}
