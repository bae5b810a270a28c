package service

import (
	"context"
	"math"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"go.uber.org/zap"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50

	msgUpstreamUnavailable = "places provider is unavailable, please try again later"
)

type searchKey struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchText returns places matching the free-text query, at most limit of them.
// Identical requests are answered from the search cache.
func (s *Service) SearchText(ctx context.Context, query string, limit int) *model.SearchResponse {
	query = strings.TrimSpace(query)
	if query == "" {
		return invalidSearch("query must not be empty")
	}
	if limit < 1 || limit > MaxSearchLimit {
		return invalidSearch("limit must be between 1 and 50")
	}

	key := cache.Key(searchKey{Query: query, Limit: limit})
	if results, ok := s.searchCache.Get(key); ok {
		return searchResponse(results)
	}

	// Joined callers share this call, so it must outlive the first caller's context.
	// The upstream client timeout still bounds it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.searchFlight.Do(key, func() (interface{}, error) {
		records, err := s.provider.TextSearch(flightCtx, query, limit)
		if err != nil {
			return nil, err
		}
		results := places.NormalizeAll(records)
		s.searchCache.Set(key, results)

		if s.prefetchPhotos {
			s.prefetch(flightCtx, results)
		}
		return results, nil
	})
	if err != nil {
		s.logger.Error("Text search failed",
			zap.String("provider", s.provider.Name()),
			zap.String("query", query),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return &model.SearchResponse{
			Results: []model.SearchResult{},
			Status:  model.StatusError,
			Error:   msgUpstreamUnavailable,
		}
	}

	results := v.([]model.SearchResult)
	s.logger.Debug("Text search",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Bool("shared", shared),
	)
	return searchResponse(results)
}

// prefetch resolves the photos of every place in one fan-out and stores each
// place's photos under the key GetPhotos would use with the default height.
func (s *Service) prefetch(ctx context.Context, results []model.SearchResult) {
	var (
		keys   []string
		groups [][]string
	)
	for _, r := range results {
		if len(r.Photos) == 0 {
			continue
		}
		key := cache.Key(photoKey{PhotoNames: r.Photos, MaxHeightPx: DefaultMaxHeightPx})
		if _, ok := s.photoCache.Get(key); ok {
			continue
		}
		keys = append(keys, key)
		groups = append(groups, r.Photos)
	}
	if len(groups) == 0 {
		return
	}

	batches := places.FetchPhotoGroups(ctx, s.provider, groups, DefaultMaxHeightPx, s.photoConcurrency, s.logger)
	for i, batch := range batches {
		if len(batch.Photos) > 0 {
			s.photoCache.Set(keys[i], batch.Photos)
		}
	}
}

// SearchByLocation returns the place closest to the point. It is not cached.
func (s *Service) SearchByLocation(ctx context.Context, lat, lng float64) *model.ReverseGeocodeResponse {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return &model.ReverseGeocodeResponse{Status: model.StatusInvalidRequest, Error: "lat must be between -90 and 90"}
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return &model.ReverseGeocodeResponse{Status: model.StatusInvalidRequest, Error: "lng must be between -180 and 180"}
	}

	records, err := s.provider.NearbySearch(ctx, lat, lng)
	if err != nil {
		s.logger.Error("Nearby search failed",
			zap.String("provider", s.provider.Name()),
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err),
		)
		return &model.ReverseGeocodeResponse{Status: model.StatusError, Error: msgUpstreamUnavailable}
	}

	results := places.NormalizeAll(records)
	if len(results) == 0 {
		return &model.ReverseGeocodeResponse{Status: model.StatusZeroResults}
	}
	return &model.ReverseGeocodeResponse{Result: &results[0], Status: model.StatusOK}
}

func searchResponse(results []model.SearchResult) *model.SearchResponse {
	if len(results) == 0 {
		return &model.SearchResponse{Results: []model.SearchResult{}, Status: model.StatusZeroResults}
	}
	return &model.SearchResponse{Results: results, Status: model.StatusOK}
}

func invalidSearch(msg string) *model.SearchResponse {
	return &model.SearchResponse{
		Results: []model.SearchResult{},
		Status:  model.StatusInvalidRequest,
		Error:   msg,
	}
}
