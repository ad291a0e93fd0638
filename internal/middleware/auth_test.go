package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"school-service/pkg/config"
	"school-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{
		UserSecret:     "user-test-secret",
		SchoolSecret:   "school-test-secret",
		UserTokenTTL:   168 * time.Hour,
		SchoolTokenTTL: 24 * time.Hour,
	})
}

func invokeAuth(t *testing.T, req *http.Request) echo.Context {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	err := Auth(func(c echo.Context) error {
		captured = c
		return nil
	})(c)
	require.NoError(t, err)
	require.NotNil(t, captured, "auth middleware must always forward")
	return captured
}

func TestAuthAttachesUserFromBearerToken(t *testing.T) {
	initTestJWT(t)

	token, err := jwtutil.IssueUserToken(jwtutil.UserClaims{
		ID:    "user-1",
		Email: "jane@example.com",
		Role:  "teacher",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	c := invokeAuth(t, req)
	claims, ok := UserFrom(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestAuthAcceptsBareToken(t *testing.T) {
	initTestJWT(t)

	token, err := jwtutil.IssueUserToken(jwtutil.UserClaims{ID: "user-2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", token)

	c := invokeAuth(t, req)
	claims, ok := UserFrom(c)
	require.True(t, ok)
	assert.Equal(t, "user-2", claims.ID)
}

func TestAuthForwardsAnonymouslyOnInvalidToken(t *testing.T) {
	initTestJWT(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	c := invokeAuth(t, req)
	_, ok := UserFrom(c)
	assert.False(t, ok)
}

func TestAuthAttachesSchoolIdentity(t *testing.T) {
	initTestJWT(t)

	token, err := jwtutil.IssueSchoolToken(jwtutil.SchoolClaims{
		ID:           "school-1",
		Name:         "Greenhill",
		DatabaseName: "school_school-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/school/students", nil)
	req.Header.Set("School-Token", token)

	c := invokeAuth(t, req)
	claims, ok := SchoolFrom(c)
	require.True(t, ok)
	assert.Equal(t, "school-1", claims.ID)
	assert.Equal(t, "school_school-1", claims.DatabaseName)
}

func TestRequireSchoolTokenRejectsWithoutToken(t *testing.T) {
	initTestJWT(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/school/students", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireSchoolToken(func(c echo.Context) error {
		t.Fatal("handler must not run without a school token")
		return nil
	})(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Invalid or missing school token 😣"}`, rec.Body.String())
}

func TestRequireSchoolTokenRejectsUserToken(t *testing.T) {
	initTestJWT(t)

	// A user token in the School-Token header must not pass the guard.
	token, err := jwtutil.IssueUserToken(jwtutil.UserClaims{ID: "user-3"})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/school/students", nil)
	req.Header.Set("School-Token", token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = RequireSchoolToken(func(c echo.Context) error {
		t.Fatal("handler must not run with a user token")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSchoolTokenVerifiesHeaderDirectly(t *testing.T) {
	initTestJWT(t)

	token, err := jwtutil.IssueSchoolToken(jwtutil.SchoolClaims{
		ID:           "school-2",
		DatabaseName: "school_school-2",
	})
	require.NoError(t, err)

	// No Auth middleware in front; the guard verifies the header itself.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/school/students", nil)
	req.Header.Set("School-Token", token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err = RequireSchoolToken(func(c echo.Context) error {
		called = true
		claims, ok := SchoolFrom(c)
		require.True(t, ok)
		assert.Equal(t, "school-2", claims.ID)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUser(t *testing.T) {
	initTestJWT(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireUser(func(c echo.Context) error {
		t.Fatal("handler must not run without a principal")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a principal attached the guard forwards.
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/me", nil), httptest.NewRecorder())
	c2.Set(UserContextKey, &jwtutil.UserClaims{ID: "user-4"})
	called := false
	err = RequireUser(func(c echo.Context) error {
		called = true
		return nil
	})(c2)
	require.NoError(t, err)
	assert.True(t, called)
}
