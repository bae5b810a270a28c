package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const metersPerDegreeLat = 111320.0

type sqliteNoteRepository struct {
	db *sqlx.DB
}

func (r *sqliteNoteRepository) List(ctx context.Context) ([]model.PlaceNote, error) {
	notes := []model.PlaceNote{}
	q := `SELECT * FROM place_notes ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &notes, q); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNear returns notes within radiusMeters of the point, closest first.
// A bounding box narrows candidates before the exact distance check.
func (r *sqliteNoteRepository) ListNear(ctx context.Context, lat, lng, radiusMeters float64) ([]model.PlaceNote, error) {
	dLat := radiusMeters / metersPerDegreeLat
	dLng := 360.0
	if cos := math.Cos(lat * math.Pi / 180.0); cos > 1e-6 {
		dLng = math.Min(360.0, radiusMeters/(metersPerDegreeLat*cos))
	}

	minLat, maxLat := lat-dLat, lat+dLat
	minLng, maxLng := lng-dLng, lng+dLng

	// Boxes crossing the antimeridian are split into two longitude ranges
	var (
		q    string
		args []interface{}
	)
	switch {
	case dLng >= 180.0:
		q = `SELECT * FROM place_notes WHERE latitude BETWEEN ? AND ?`
		args = []interface{}{minLat, maxLat}
	case minLng < -180.0 || maxLng > 180.0:
		q = `
			SELECT * FROM place_notes
			WHERE latitude BETWEEN ? AND ?
			AND (longitude BETWEEN ? AND 180 OR longitude BETWEEN -180 AND ?)
		`
		if minLng < -180.0 {
			args = []interface{}{minLat, maxLat, minLng + 360.0, maxLng}
		} else {
			args = []interface{}{minLat, maxLat, minLng, maxLng - 360.0}
		}
	default:
		q = `
			SELECT * FROM place_notes
			WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
		`
		args = []interface{}{minLat, maxLat, minLng, maxLng}
	}

	var candidates []model.PlaceNote
	if err := r.db.SelectContext(ctx, &candidates, q, args...); err != nil {
		return nil, err
	}

	type scored struct {
		note model.PlaceNote
		dist float64
	}
	var within []scored
	for _, n := range candidates {
		dist := calculateDistance(lat, lng, n.Latitude, n.Longitude) * 1000
		if dist <= radiusMeters {
			within = append(within, scored{note: n, dist: dist})
		}
	}
	sort.SliceStable(within, func(i, j int) bool { return within[i].dist < within[j].dist })

	notes := make([]model.PlaceNote, 0, len(within))
	for _, s := range within {
		notes = append(notes, s.note)
	}
	return notes, nil
}

// calculateDistance returns the haversine distance in km
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func (r *sqliteNoteRepository) Get(ctx context.Context, id string) (*model.PlaceNote, error) {
	var note model.PlaceNote
	if err := r.db.GetContext(ctx, &note, "SELECT * FROM place_notes WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *sqliteNoteRepository) Create(ctx context.Context, note model.PlaceNote) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO place_notes (id, title, note, notify_enabled, notify_distance, latitude, longitude, created_at)
		VALUES (:id, :title, :note, :notify_enabled, :notify_distance, :latitude, :longitude, :created_at)`,
		note)
	return err
}

func (r *sqliteNoteRepository) Update(ctx context.Context, note model.PlaceNote) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE place_notes SET
			title = :title,
			note = :note,
			notify_enabled = :notify_enabled,
			notify_distance = :notify_distance,
			latitude = :latitude,
			longitude = :longitude
		WHERE id = :id`,
		note)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM place_notes WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteNoteRepository) BulkInsert(ctx context.Context, notes []model.PlaceNote) error {
	// 100 rows * 8 params stays well within SQLite's variable limit
	chunkSize := 100
	for i := 0; i < len(notes); i += chunkSize {
		end := i + chunkSize
		if end > len(notes) {
			end = len(notes)
		}
		batch := notes[i:end]

		_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO place_notes (id, title, note, notify_enabled, notify_distance, latitude, longitude, created_at)
		VALUES (:id, :title, :note, :notify_enabled, :notify_distance, :latitude, :longitude, :created_at)`,
			batch)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteNoteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM place_notes"); err != nil {
		return 0, err
	}
	return count, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
