package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_NAME":           "talent-match",
		"APP_ENV":            "test",
		"HTTP_PORT":          "8080",
		"DB_HOST":            "localhost",
		"DB_NAME":            "talent",
		"DB_USER":            "postgres",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.Database.DBPort)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
	assert.Equal(t, 80.0, cfg.Interview.QualifyThreshold)
	assert.Equal(t, EngineMock, cfg.Assessment.Engine)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxResumeBytes)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, "/files", cfg.Storage.PublicBaseURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "APP_NAME")
	delete(env, "JWT_ACCESS_SECRET")

	_, err := load(envOf(env))
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoad_InvalidValues(t *testing.T) {
	env := baseEnv()
	env["INTERVIEW_QUALIFY_THRESHOLD"] = "eighty"
	env["REDIS_TTL"] = "soon"

	_, err := load(envOf(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTERVIEW_QUALIFY_THRESHOLD")
	assert.Contains(t, err.Error(), "REDIS_TTL")
}

func TestLoad_VertexRequiresProject(t *testing.T) {
	env := baseEnv()
	env["ASSESSMENT_ENGINE"] = "vertex"

	_, err := load(envOf(env))
	require.ErrorIs(t, err, errMissingRequiredEnv)

	env["GOOGLE_CLOUD_PROJECT"] = "proj"
	cfg, err := load(envOf(env))
	require.NoError(t, err)
	assert.Equal(t, EngineVertex, cfg.Assessment.Engine)
}

func TestLoad_RejectsMalformedSlots(t *testing.T) {
	env := baseEnv()
	env["INTERVIEW_SLOTS"] = "[{"

	_, err := load(envOf(env))
	require.Error(t, err)
}

func TestLoad_MockSeed(t *testing.T) {
	before := time.Now().UnixNano()
	a, err := load(envOf(baseEnv()))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a.Assessment.MockSeed, before)

	env := baseEnv()
	env["ASSESSMENT_MOCK_SEED"] = "42"
	c, err := load(envOf(env))
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.Assessment.MockSeed)
}
