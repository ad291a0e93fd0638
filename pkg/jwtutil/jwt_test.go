package jwtutil

import (
	"testing"
	"time"

	"school-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		UserSecret:     "user-secret-for-tests",
		SchoolSecret:   "school-secret-for-tests",
		UserTokenTTL:   168 * time.Hour,
		SchoolTokenTTL: 24 * time.Hour,
	}
}

func withFixedClock(t *testing.T, fixed time.Time) {
	t.Helper()
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })
}

func TestUserTokenRoundTrip(t *testing.T) {
	Initialize(testJWTConfig())
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	withFixedClock(t, issued)

	in := UserClaims{
		ID:              "68123abc0000000000000001",
		Name:            "Ada Lovelace",
		Email:           "ada@example.org",
		Username:        "ada.lovelace-1f2e",
		Role:            "student",
		CurrentSchoolID: "68123abc0000000000000009",
	}

	token, err := IssueUserToken(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := VerifyUserToken(token)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Username, out.Username)
	assert.Equal(t, in.Role, out.Role)
	assert.Equal(t, in.CurrentSchoolID, out.CurrentSchoolID)
	assert.Equal(t, issued.Unix(), out.IssuedAt.Unix())
	assert.Equal(t, issued.Add(168*time.Hour).Unix(), out.ExpiresAt.Unix())
}

func TestSchoolTokenRoundTrip(t *testing.T) {
	Initialize(testJWTConfig())
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	withFixedClock(t, issued)

	in := SchoolClaims{
		ID:           "68123abc0000000000000002",
		CreatorID:    "68123abc0000000000000001",
		Name:         "St Theresa",
		Username:     "st-theresa",
		SchoolType:   "secondary",
		DatabaseName: "school_s1",
	}

	token, err := IssueSchoolToken(in)
	require.NoError(t, err)

	out, err := VerifySchoolToken(token)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.CreatorID, out.CreatorID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.DatabaseName, out.DatabaseName)
	assert.Equal(t, issued.Add(24*time.Hour).Unix(), out.ExpiresAt.Unix())
}

func TestCrossFamilyRejection(t *testing.T) {
	Initialize(testJWTConfig())

	userToken, err := IssueUserToken(UserClaims{ID: "u1", Email: "u1@example.org"})
	require.NoError(t, err)
	schoolToken, err := IssueSchoolToken(SchoolClaims{ID: "s1", DatabaseName: "school_s1"})
	require.NoError(t, err)

	// A user token must never validate against the school secret
	_, err = VerifySchoolToken(userToken)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	// And vice versa
	_, err = VerifyUserToken(schoolToken)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestExpiredToken(t *testing.T) {
	Initialize(testJWTConfig())
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	withFixedClock(t, issued)

	token, err := IssueUserToken(UserClaims{ID: "u1"})
	require.NoError(t, err)

	// One second past expiration, no clock skew tolerance
	now = func() time.Time { return issued.Add(168*time.Hour + time.Second) }
	_, err = VerifyUserToken(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestMalformedToken(t *testing.T) {
	Initialize(testJWTConfig())

	_, err := VerifyUserToken("not.a.token")
	require.Error(t, err)

	_, err = VerifySchoolToken("")
	require.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	Initialize(&config.JWTConfig{
		UserTokenTTL:   time.Hour,
		SchoolTokenTTL: time.Hour,
	})

	_, err := IssueUserToken(UserClaims{ID: "u1"})
	require.ErrorIs(t, err, ErrSecretMissing)

	_, err = IssueSchoolToken(SchoolClaims{ID: "s1"})
	require.ErrorIs(t, err, ErrSecretMissing)
}
