package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"go.uber.org/zap"
)

const (
	DefaultMaxHeightPx = 800
	MaxPhotoHeightPx   = 4800
	MaxPhotoNames      = 50
)

var errNoPhotos = errors.New("no photo could be resolved")

type photoKey struct {
	PhotoNames  []string `json:"photoNames"`
	MaxHeightPx int      `json:"maxHeightPx"`
}

// GetPhotos resolves photo identifiers to media URIs, keeping input order.
// A maxHeightPx of 0 uses the default height. Failed photos are left out; when
// none resolve the response is an error and nothing is cached.
func (s *Service) GetPhotos(ctx context.Context, photoNames []string, maxHeightPx int) *model.PhotoDetailsResponse {
	if len(photoNames) == 0 {
		return invalidPhotos("photos must not be empty")
	}
	if len(photoNames) > MaxPhotoNames {
		return invalidPhotos("at most 50 photos may be requested at once")
	}
	for _, name := range photoNames {
		if strings.TrimSpace(name) == "" {
			return invalidPhotos("photo names must not be blank")
		}
	}
	if maxHeightPx == 0 {
		maxHeightPx = DefaultMaxHeightPx
	}
	if maxHeightPx < 1 || maxHeightPx > MaxPhotoHeightPx {
		return invalidPhotos("maxHeightPx must be between 1 and 4800")
	}

	key := cache.Key(photoKey{PhotoNames: photoNames, MaxHeightPx: maxHeightPx})
	if photos, ok := s.photoCache.Get(key); ok {
		return &model.PhotoDetailsResponse{Photos: photos, Status: model.StatusOK}
	}

	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.photoFlight.Do(key, func() (interface{}, error) {
		batch := places.FetchPhotos(flightCtx, s.provider, photoNames, maxHeightPx, s.photoConcurrency, s.logger)
		if len(batch.Photos) == 0 {
			return nil, errNoPhotos
		}
		s.photoCache.Set(key, batch.Photos)
		return batch.Photos, nil
	})
	if err != nil {
		s.logger.Error("Photo lookup failed",
			zap.String("provider", s.provider.Name()),
			zap.Int("photos", len(photoNames)),
			zap.Error(err),
		)
		return &model.PhotoDetailsResponse{
			Photos: []model.PhotoDetail{},
			Status: model.StatusError,
			Error:  msgUpstreamUnavailable,
		}
	}

	return &model.PhotoDetailsResponse{Photos: v.([]model.PhotoDetail), Status: model.StatusOK}
}

func invalidPhotos(msg string) *model.PhotoDetailsResponse {
	return &model.PhotoDetailsResponse{
		Photos: []model.PhotoDetail{},
		Status: model.StatusInvalidRequest,
		Error:  msg,
	}
}
