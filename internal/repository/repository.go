package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a note does not exist
var ErrNotFound = errors.New("place note not found")

// NoteRepository defines operations for place notes
type NoteRepository interface {
	List(ctx context.Context) ([]model.PlaceNote, error)
	ListNear(ctx context.Context, lat, lng, radiusMeters float64) ([]model.PlaceNote, error)
	Get(ctx context.Context, id string) (*model.PlaceNote, error)
	Create(ctx context.Context, note model.PlaceNote) error
	Update(ctx context.Context, note model.PlaceNote) error
	Delete(ctx context.Context, id string) error
	BulkInsert(ctx context.Context, notes []model.PlaceNote) error
	Count(ctx context.Context) (int64, error)
}

// Container holds all repositories
type Container struct {
	Note NoteRepository
}

// NewRepositories creates the SQLite-backed repositories
func NewRepositories(db *sqlx.DB) *Container {
	return &Container{
		Note: &sqliteNoteRepository{db: db},
	}
}

// IsDatabaseEmpty reports whether no notes are stored yet. Migrations must have run.
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM place_notes"); err != nil {
		return false, fmt.Errorf("failed to count place notes: %w", err)
	}
	return count == 0, nil
}
