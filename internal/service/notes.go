package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidInput marks note requests that fail validation
var ErrInvalidInput = errors.New("invalid input")

const maxNearRadius = 50000

// ListNotes returns every note, oldest first
func (s *Service) ListNotes(ctx context.Context) ([]model.PlaceNote, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ListNotesNear returns notes within radiusMeters of the point, closest first
func (s *Service) ListNotesNear(ctx context.Context, lat, lng, radiusMeters float64) ([]model.PlaceNote, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radiusMeters <= 0 || radiusMeters > maxNearRadius {
		return nil, fmt.Errorf("%w: radius must be between 0 and %d meters", ErrInvalidInput, maxNearRadius)
	}

	notes, err := s.noteRepo.ListNear(ctx, lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes near point: %w", err)
	}
	return notes, nil
}

// GetNote returns one note or repository.ErrNotFound
func (s *Service) GetNote(ctx context.Context, id string) (*model.PlaceNote, error) {
	note, err := s.noteRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return note, nil
}

// CreateNote validates and stores a new note. Notifications default to enabled
// at about a mile.
func (s *Service) CreateNote(ctx context.Context, in model.CreatePlaceNoteInput) (*model.PlaceNote, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	note := model.PlaceNote{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Note:           in.Note,
		NotifyEnabled:  true,
		NotifyDistance: model.DefaultNotifyDistance,
		Latitude:       *in.Latitude,
		Longitude:      *in.Longitude,
		CreatedAt:      s.now(),
	}
	if in.NotifyEnabled != nil {
		note.NotifyEnabled = *in.NotifyEnabled
	}
	if in.NotifyDistance != nil {
		note.NotifyDistance = *in.NotifyDistance
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	s.logger.Info("Place note created", zap.String("id", note.ID))
	return &note, nil
}

// UpdateNote applies a partial update to an existing note
func (s *Service) UpdateNote(ctx context.Context, id string, in model.UpdatePlaceNoteInput) (*model.PlaceNote, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	in.Apply(note)

	if err := s.noteRepo.Update(ctx, *note); err != nil {
		return nil, fmt.Errorf("failed to update note %s: %w", id, err)
	}
	return note, nil
}

// DeleteNote removes a note or returns repository.ErrNotFound
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	s.logger.Info("Place note deleted", zap.String("id", id))
	return nil
}

func (s *Service) validateInput(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "latitude", "longitude":
		return field + " is out of range"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
