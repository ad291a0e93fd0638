package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"school-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSecretMissing is returned when a token is issued or verified before
	// the corresponding signing secret has been configured
	ErrSecretMissing = errors.New("jwt signing secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

var jwtConfig *config.JWTConfig

// now is indirect so token tests can run against a fixed clock
var now = time.Now

// Initialize sets the JWT configuration used by the package-level helpers
func Initialize(cfg *config.JWTConfig) {
	jwtConfig = cfg
}

// UserClaims represents the JWT claims for an authenticated user.
// The claim keys are part of the wire contract with existing clients.
type UserClaims struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Image           string `json:"image,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role,omitempty"`
	Gender          string `json:"gender,omitempty"`
	CurrentSchoolID string `json:"current_school_id,omitempty"`
	jwt.RegisteredClaims
}

// SchoolClaims represents the JWT claims of a school context token.
// DatabaseName is the tenant database the token grants access to.
type SchoolClaims struct {
	ID           string     `json:"id"`
	CreatorID    string     `json:"creator_id,omitempty"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Logo         string     `json:"logo,omitempty"`
	SchoolType   string     `json:"school_type,omitempty"`
	Affiliation  string     `json:"affiliation,omitempty"`
	DatabaseName string     `json:"database_name"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	jwt.RegisteredClaims
}

// IssueUserToken creates a signed user token. The issued-at and expiration
// claims are overwritten from the configured user-token lifetime.
func IssueUserToken(claims UserClaims) (string, error) {
	if jwtConfig == nil || jwtConfig.UserSecret == "" {
		return "", ErrSecretMissing
	}

	claims.IssuedAt = jwt.NewNumericDate(now())
	claims.ExpiresAt = jwt.NewNumericDate(now().Add(jwtConfig.UserTokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.UserSecret))
}

// VerifyUserToken validates a user token against the user secret only.
// A token signed with the school secret fails here by construction.
func VerifyUserToken(tokenString string) (*UserClaims, error) {
	if jwtConfig == nil || jwtConfig.UserSecret == "" {
		return nil, ErrSecretMissing
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtConfig.UserSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now() }))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueSchoolToken creates a signed school token against the school secret
func IssueSchoolToken(claims SchoolClaims) (string, error) {
	if jwtConfig == nil || jwtConfig.SchoolSecret == "" {
		return "", ErrSecretMissing
	}

	claims.IssuedAt = jwt.NewNumericDate(now())
	claims.ExpiresAt = jwt.NewNumericDate(now().Add(jwtConfig.SchoolTokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SchoolSecret))
}

// VerifySchoolToken validates a school token against the school secret only
func VerifySchoolToken(tokenString string) (*SchoolClaims, error) {
	if jwtConfig == nil || jwtConfig.SchoolSecret == "" {
		return nil, ErrSecretMissing
	}

	claims := &SchoolClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtConfig.SchoolSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now() }))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
