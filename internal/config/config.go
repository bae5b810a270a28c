package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env    string
	DB     DBConfig
	Server ServerConfig
	Places PlacesConfig
	Cache  CacheConfig
	Seeder SeederConfig
}

// ProviderType represents the upstream places provider
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderNominatim ProviderType = "nominatim"
)

// DBConfig holds database configuration. Notes live in an in-memory SQLite
// database and are gone after a restart.
type DBConfig struct {
	Name string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Name != "" && c.Name != "placenotes" {
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
	}
	return "file::memory:?cache=shared"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// PlacesConfig holds settings for the upstream places provider
type PlacesConfig struct {
	Provider           ProviderType
	GoogleAPIKey       string
	GoogleBaseURL      string
	NominatimBaseURL   string
	NominatimUserAgent string
	Timeout            time.Duration
	RateLimit          float64
	PhotoConcurrency   int
	PrefetchPhotos     bool
}

// CacheConfig holds bounds for the search and photo caches.
// A size of 0 means unbounded, a TTL of 0 means entries live for the process lifetime.
type CacheConfig struct {
	SearchSize int
	PhotoSize  int
	TTL        time.Duration
}

// SeederConfig holds settings for the startup note import
type SeederConfig struct {
	NotesFile string
}

// IsDevelopment reports whether the service runs with development logging
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks settings that must be present before the provider can be built
func (c *Config) Validate() error {
	switch c.Places.Provider {
	case ProviderGoogle:
		if c.Places.GoogleAPIKey == "" {
			return errors.New("GOOGLE_API_KEY is not set in environment variables")
		}
		if c.Places.GoogleBaseURL == "" {
			return errors.New("GOOGLE_PLACES_BASE_URL must not be empty")
		}
	case ProviderNominatim:
		if c.Places.NominatimBaseURL == "" {
			return errors.New("NOMINATIM_BASE_URL must not be empty")
		}
	default:
		return fmt.Errorf("unknown places provider %q", c.Places.Provider)
	}
	if c.Places.Timeout <= 0 {
		return errors.New("PLACES_TIMEOUT must be positive")
	}
	if c.Places.RateLimit <= 0 {
		return errors.New("PLACES_RATE_LIMIT must be positive")
	}
	return nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Env: getEnv("APP_ENV", "production"),
		DB: DBConfig{
			Name: getEnv("DB_NAME", "placenotes"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "4000"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Places: PlacesConfig{
			Provider:           ProviderType(strings.ToLower(getEnv("PLACES_PROVIDER", string(ProviderGoogle)))),
			GoogleAPIKey:       os.Getenv("GOOGLE_API_KEY"),
			GoogleBaseURL:      getEnv("GOOGLE_PLACES_BASE_URL", "https://places.googleapis.com/v1"),
			NominatimBaseURL:   getEnv("NOMINATIM_BASE_URL", "http://localhost:8080"),
			NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "oh-yeah-that-place-app/1.0"),
			Timeout:            getEnvAsDuration("PLACES_TIMEOUT", 10*time.Second),
			RateLimit:          getEnvAsFloat("PLACES_RATE_LIMIT", 10),
			PhotoConcurrency:   getEnvAsInt("PLACES_PHOTO_CONCURRENCY", 8),
			PrefetchPhotos:     getEnvAsBool("PLACES_PREFETCH_PHOTOS", false),
		},
		Cache: CacheConfig{
			SearchSize: getEnvAsInt("CACHE_SEARCH_SIZE", 1024),
			PhotoSize:  getEnvAsInt("CACHE_PHOTO_SIZE", 1024),
			TTL:        getEnvAsDuration("CACHE_TTL", 0),
		},
		Seeder: SeederConfig{
			NotesFile: os.Getenv("SEEDER_NOTES_FILE"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
