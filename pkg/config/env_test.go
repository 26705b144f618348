package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("PAYAUTH_TEST_VAR", "test_value")

	assert.Equal(t, "test_value", GetEnv("PAYAUTH_TEST_VAR", "default"))
	assert.Equal(t, "default", GetEnv("PAYAUTH_NONEXISTENT_VAR", "default"))
	assert.True(t, IsEnvSet("PAYAUTH_TEST_VAR"))
	assert.False(t, IsEnvSet("PAYAUTH_NONEXISTENT_VAR"))
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("PAYAUTH_INT", "42")
	t.Setenv("PAYAUTH_BOOL", "true")
	t.Setenv("PAYAUTH_DURATION", "1m30s")
	t.Setenv("PAYAUTH_GARBAGE", "not-a-number")

	assert.Equal(t, 42, GetEnvAsInt("PAYAUTH_INT", 0))
	assert.Equal(t, 7, GetEnvAsInt("PAYAUTH_GARBAGE", 7))
	assert.True(t, GetEnvAsBool("PAYAUTH_BOOL", false))
	assert.True(t, GetEnvAsBool("PAYAUTH_GARBAGE", true))
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("PAYAUTH_DURATION", 0))
	assert.Equal(t, time.Second, GetEnvAsDuration("PAYAUTH_GARBAGE", time.Second))
}
