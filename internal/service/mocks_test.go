package service

import (
	"context"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"github.com/stretchr/testify/mock"
)

// MockProvider implements places.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) TextSearch(ctx context.Context, query string, limit int) ([]places.Record, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]places.Record), args.Error(1)
}

func (m *MockProvider) NearbySearch(ctx context.Context, lat, lng float64) ([]places.Record, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]places.Record), args.Error(1)
}

func (m *MockProvider) FetchPhotoMedia(ctx context.Context, photoName string, maxHeightPx int) (model.PhotoDetail, error) {
	args := m.Called(ctx, photoName, maxHeightPx)
	return args.Get(0).(model.PhotoDetail), args.Error(1)
}

func (m *MockProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNoteRepository implements repository.NoteRepository interface
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) List(ctx context.Context) ([]model.PlaceNote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PlaceNote), args.Error(1)
}

func (m *MockNoteRepository) ListNear(ctx context.Context, lat, lng, radiusMeters float64) ([]model.PlaceNote, error) {
	args := m.Called(ctx, lat, lng, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PlaceNote), args.Error(1)
}

func (m *MockNoteRepository) Get(ctx context.Context, id string) (*model.PlaceNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlaceNote), args.Error(1)
}

func (m *MockNoteRepository) Create(ctx context.Context, note model.PlaceNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Update(ctx context.Context, note model.PlaceNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) BulkInsert(ctx context.Context, notes []model.PlaceNote) error {
	args := m.Called(ctx, notes)
	return args.Error(0)
}

func (m *MockNoteRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
