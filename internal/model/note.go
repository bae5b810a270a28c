package model

import "time"

// DefaultNotifyDistance is the default notification radius in meters, about a mile
const DefaultNotifyDistance = 1609

// PlaceNote represents a note pinned to a map location
type PlaceNote struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Note           *string   `json:"note,omitempty" db:"note"`
	NotifyEnabled  bool      `json:"notifyEnabled" db:"notify_enabled"`
	NotifyDistance float64   `json:"notifyDistance" db:"notify_distance"`
	Latitude       float64   `json:"latitude" db:"latitude"`
	Longitude      float64   `json:"longitude" db:"longitude"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// CreatePlaceNoteInput is the body accepted when creating a note.
// Pointer fields distinguish "absent" from zero values.
type CreatePlaceNoteInput struct {
	Title          string   `json:"title" validate:"required"`
	Note           *string  `json:"note,omitempty"`
	NotifyEnabled  *bool    `json:"notifyEnabled,omitempty"`
	NotifyDistance *float64 `json:"notifyDistance,omitempty" validate:"omitempty,min=0,max=5000"`
	Latitude       *float64 `json:"latitude" validate:"required,latitude"`
	Longitude      *float64 `json:"longitude" validate:"required,longitude"`
}

// UpdatePlaceNoteInput is a partial update; nil fields are left untouched
type UpdatePlaceNoteInput struct {
	Title          *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Note           *string  `json:"note,omitempty"`
	NotifyEnabled  *bool    `json:"notifyEnabled,omitempty"`
	NotifyDistance *float64 `json:"notifyDistance,omitempty" validate:"omitempty,min=0,max=5000"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// Apply copies the supplied fields onto the note
func (in UpdatePlaceNoteInput) Apply(note *PlaceNote) {
	if in.Title != nil {
		note.Title = *in.Title
	}
	if in.Note != nil {
		note.Note = in.Note
	}
	if in.NotifyEnabled != nil {
		note.NotifyEnabled = *in.NotifyEnabled
	}
	if in.NotifyDistance != nil {
		note.NotifyDistance = *in.NotifyDistance
	}
	if in.Latitude != nil {
		note.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		note.Longitude = *in.Longitude
	}
}

// NoteEnvelope status values
const (
	EnvelopeSuccess = "success"
	EnvelopeError   = "error"
)

// NoteEnvelope wraps place-note REST responses
type NoteEnvelope struct {
	Data   interface{} `json:"data,omitempty"`
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
}
