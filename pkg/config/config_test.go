package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("BOOKSTORE_TEST_INT", "not-a-number")
	t.Setenv("BOOKSTORE_TEST_DUR", "90s")
	t.Setenv("BOOKSTORE_TEST_BAD_DUR", "-5m")

	assert.Equal(t, 7, EnvIntDefault("BOOKSTORE_TEST_INT", 7))
	assert.Equal(t, "fallback", EnvDefault("BOOKSTORE_TEST_MISSING", "fallback"))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("BOOKSTORE_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("BOOKSTORE_TEST_BAD_DUR", time.Minute))
}

func TestLoad_TokenLifetimes(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TTL", "")
	t.Setenv("REFRESH_TTL", "")

	cfg := Load()
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "uploads/images", cfg.UploadDir)
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "")
	assert.Equal(t, []string{"*"}, Load().CORSOrigins)

	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.shop.example")
	assert.Equal(t, []string{"https://shop.example", "https://admin.shop.example"}, Load().CORSOrigins)
}
