package seeder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/placenotes-api/internal/config"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/google/uuid"
)

// Parser reads seed notes
type Parser struct {
	notesFile string
	now       func() time.Time
}

// NewParser creates a new parser instance with config
func NewParser(seederCfg config.SeederConfig) *Parser {
	return &Parser{
		notesFile: seederCfg.NotesFile,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notes returns the notes to seed: the configured file when set, the defaults otherwise
func (p *Parser) Notes() ([]model.PlaceNote, error) {
	if p.notesFile == "" {
		return DefaultNotes(), nil
	}
	return p.ParseNotesFile(p.notesFile)
}

// ParseNotesFile parses a TSV notes file
func (p *Parser) ParseNotesFile(path string) ([]model.PlaceNote, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	notes, err := p.parseNotesFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return notes, nil
}

// parseNotesFromReader reads lines of
// title, note, notify_enabled, notify_distance, latitude, longitude
// separated by tabs. Comment lines and rows with invalid coordinates are skipped.
func (p *Parser) parseNotesFromReader(reader io.Reader) ([]model.PlaceNote, error) {
	scanner := bufio.NewScanner(reader)
	var notes []model.PlaceNote

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 6 {
			continue
		}

		title := strings.TrimSpace(parts[0])
		if title == "" {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
		if err != nil || lat < -90 || lat > 90 {
			continue
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[5]), 64)
		if err != nil || lon < -180 || lon > 180 {
			continue
		}

		notifyEnabled := true
		if v, err := strconv.ParseBool(strings.TrimSpace(parts[2])); err == nil {
			notifyEnabled = v
		}

		notifyDistance := float64(model.DefaultNotifyDistance)
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err == nil && v >= 0 && v <= 5000 {
			notifyDistance = v
		}

		var text *string
		if n := strings.TrimSpace(parts[1]); n != "" {
			text = &n
		}

		notes = append(notes, model.PlaceNote{
			ID:             uuid.New().String(),
			Title:          title,
			Note:           text,
			NotifyEnabled:  notifyEnabled,
			NotifyDistance: notifyDistance,
			Latitude:       lat,
			Longitude:      lon,
			CreatedAt:      p.now(),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// DefaultNotes returns the notes an empty database starts with
func DefaultNotes() []model.PlaceNote {
	created := time.Date(2025, 7, 1, 4, 17, 57, 524000000, time.UTC)
	first := "This is a test note"
	second := "Good mexican food"
	return []model.PlaceNote{
		{
			ID:             "6ae5f357-c0fe-4ba9-ab74-f0a6384efac8",
			Title:          "Test 1",
			Note:           &first,
			NotifyEnabled:  true,
			NotifyDistance: 1000,
			Latitude:       40.08485509988256,
			Longitude:      -104.95040606707335,
			CreatedAt:      created,
		},
		{
			ID:             "6ae5f357-c0fe-4ba9-ab74-f0a6384efac9",
			Title:          "Casa Cortes",
			Note:           &second,
			NotifyEnabled:  true,
			NotifyDistance: 1500,
			Latitude:       40.087509,
			Longitude:      -104.935554,
			CreatedAt:      created,
		},
	}
}
