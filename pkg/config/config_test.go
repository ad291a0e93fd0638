package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("USER_SECRET", "user-secret")
	t.Setenv("SCHOOL_SECRET", "school-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "space_together", cfg.Mongo.MainDBName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 168*time.Hour, cfg.JWT.UserTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.SchoolTokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAIN_DB_NAME", "space_together_test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("USER_TOKEN_TTL_HOURS", "2")
	t.Setenv("SCHOOL_TOKEN_TTL_HOURS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "space_together_test", cfg.Mongo.MainDBName)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.UserTokenTTL)
	assert.Equal(t, time.Hour, cfg.JWT.SchoolTokenTTL)
}

func TestLoadRequiredSettings(t *testing.T) {
	cases := []struct {
		name    string
		missing string
	}{
		{"missing mongo uri", "MONGO_URI"},
		{"missing user secret", "USER_SECRET"},
		{"missing school secret", "SCHOOL_SECRET"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.missing)
		})
	}
}
