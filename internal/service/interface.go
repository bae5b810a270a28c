package service

import (
	"context"

	"github.com/alexivanou/placenotes-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	SearchText(ctx context.Context, query string, limit int) *model.SearchResponse
	SearchByLocation(ctx context.Context, lat, lng float64) *model.ReverseGeocodeResponse
	GetPhotos(ctx context.Context, photoNames []string, maxHeightPx int) *model.PhotoDetailsResponse

	ListNotes(ctx context.Context) ([]model.PlaceNote, error)
	ListNotesNear(ctx context.Context, lat, lng, radiusMeters float64) ([]model.PlaceNote, error)
	GetNote(ctx context.Context, id string) (*model.PlaceNote, error)
	CreateNote(ctx context.Context, in model.CreatePlaceNoteInput) (*model.PlaceNote, error)
	UpdateNote(ctx context.Context, id string, in model.UpdatePlaceNoteInput) (*model.PlaceNote, error)
	DeleteNote(ctx context.Context, id string) error

	ProviderStatus(ctx context.Context) (string, bool)
	CacheStats() CacheStats
	ClearCaches()
}
