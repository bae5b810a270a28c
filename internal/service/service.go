package service

import (
	"context"
	"time"

	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"github.com/alexivanou/placenotes-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service provides business logic for the API. It is the single place where
// search statuses are decided.
type Service struct {
	provider    places.Provider
	searchCache cache.Store[[]model.SearchResult]
	photoCache  cache.Store[[]model.PhotoDetail]
	noteRepo    repository.NoteRepository

	logger           *zap.Logger
	validate         *validator.Validate
	searchFlight     singleflight.Group
	photoFlight      singleflight.Group
	photoConcurrency int
	prefetchPhotos   bool
	now              func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPhotoConcurrency bounds in-flight photo fetches per fan-out (0 means unbounded).
func WithPhotoConcurrency(n int) Option {
	return func(s *Service) {
		s.photoConcurrency = n
	}
}

// WithPhotoPrefetch warms the photo cache after each text search miss.
func WithPhotoPrefetch(enabled bool) Option {
	return func(s *Service) {
		s.prefetchPhotos = enabled
	}
}

// NewService creates a new service instance
func NewService(
	provider places.Provider,
	searchCache cache.Store[[]model.SearchResult],
	photoCache cache.Store[[]model.PhotoDetail],
	noteRepo repository.NoteRepository,
	opts ...Option,
) *Service {
	s := &Service{
		provider:    provider,
		searchCache: searchCache,
		photoCache:  photoCache,
		noteRepo:    noteRepo,
		logger:      zap.NewNop(),
		validate:    validator.New(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheStats is a snapshot of both lookup caches
type CacheStats struct {
	Search cache.Stats `json:"search"`
	Photos cache.Stats `json:"photos"`
}

// CacheStats returns the current cache counters
func (s *Service) CacheStats() CacheStats {
	return CacheStats{
		Search: cache.StatsOf(s.searchCache),
		Photos: cache.StatsOf(s.photoCache),
	}
}

// ClearCaches drops every cached search and photo entry
func (s *Service) ClearCaches() {
	s.searchCache.Clear()
	s.photoCache.Clear()
	s.logger.Info("Lookup caches cleared")
}

// ProviderStatus reports the provider name and whether it answered a ping
func (s *Service) ProviderStatus(ctx context.Context) (string, bool) {
	if err := s.provider.Ping(ctx); err != nil {
		s.logger.Warn("Provider ping failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		return s.provider.Name(), false
	}
	return s.provider.Name(), true
}
