package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save and restore environment variables after the test
	envVars := []string{
		"APP_ENV", "APP_PORT", "CORS_ALLOWED_ORIGINS", "DB_NAME",
		"PLACES_PROVIDER", "GOOGLE_API_KEY", "GOOGLE_PLACES_BASE_URL", "NOMINATIM_BASE_URL",
		"PLACES_TIMEOUT", "PLACES_RATE_LIMIT", "PLACES_PHOTO_CONCURRENCY", "PLACES_PREFETCH_PHOTOS",
		"CACHE_SEARCH_SIZE", "CACHE_PHOTO_SIZE", "CACHE_TTL", "SEEDER_NOTES_FILE",
	}
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key) // Clear before test
	}
	defer func() {
		for key, val := range originalEnv {
			if val != "" {
				os.Setenv(key, val)
			}
		}
	}()

	t.Run("Default values", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "4000", cfg.Server.Port)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, ProviderGoogle, cfg.Places.Provider)
		assert.Equal(t, 10*time.Second, cfg.Places.Timeout)
		assert.Equal(t, 8, cfg.Places.PhotoConcurrency)
		assert.False(t, cfg.Places.PrefetchPhotos)
		assert.Equal(t, 1024, cfg.Cache.SearchSize)
		assert.Zero(t, cfg.Cache.TTL)
		assert.Empty(t, cfg.Seeder.NotesFile)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("Custom environment variables", func(t *testing.T) {
		t.Setenv("APP_PORT", "9090")
		t.Setenv("PLACES_PROVIDER", "Nominatim")
		t.Setenv("NOMINATIM_BASE_URL", "http://nominatim:8080")
		t.Setenv("PLACES_TIMEOUT", "3s")
		t.Setenv("PLACES_PREFETCH_PHOTOS", "true")
		t.Setenv("CACHE_TTL", "15m")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, ProviderNominatim, cfg.Places.Provider)
		assert.Equal(t, "http://nominatim:8080", cfg.Places.NominatimBaseURL)
		assert.Equal(t, 3*time.Second, cfg.Places.Timeout)
		assert.True(t, cfg.Places.PrefetchPhotos)
		assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	})

	t.Run("Invalid values fallback", func(t *testing.T) {
		t.Setenv("CACHE_SEARCH_SIZE", "not-a-number")
		t.Setenv("PLACES_TIMEOUT", "soon")
		t.Setenv("PLACES_PREFETCH_PHOTOS", "maybe")
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 1024, cfg.Cache.SearchSize)
		assert.Equal(t, 10*time.Second, cfg.Places.Timeout)
		assert.False(t, cfg.Places.PrefetchPhotos)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Places: PlacesConfig{
				Provider:         ProviderGoogle,
				GoogleAPIKey:     "key",
				GoogleBaseURL:    "https://places.googleapis.com/v1",
				NominatimBaseURL: "http://localhost:8080",
				Timeout:          time.Second,
				RateLimit:        5,
			},
		}
	}

	t.Run("google with key", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("google without key", func(t *testing.T) {
		cfg := valid()
		cfg.Places.GoogleAPIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
	})

	t.Run("nominatim needs no key", func(t *testing.T) {
		cfg := valid()
		cfg.Places.Provider = ProviderNominatim
		cfg.Places.GoogleAPIKey = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := valid()
		cfg.Places.Provider = "bing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive rate limit", func(t *testing.T) {
		cfg := valid()
		cfg.Places.RateLimit = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDBConfig_DSN(t *testing.T) {
	t.Run("Memory DSN default", func(t *testing.T) {
		c := DBConfig{Name: "placenotes"}
		assert.Equal(t, "file::memory:?cache=shared", c.DSN())
	})

	t.Run("Memory DSN named", func(t *testing.T) {
		c := DBConfig{Name: "test.db"}
		assert.Equal(t, "file:test.db?mode=memory&cache=shared", c.DSN())
	})
}
