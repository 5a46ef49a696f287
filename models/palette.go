package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaletteColor is a single entry of a generated color palette.
type PaletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  string `json:"rgb"`
}

// Palette represents a saved color palette. Colors holds the
// JSON-serialized array exactly as submitted; duplicate detection is an
// exact string match on it per user, backed by a unique constraint.
type Palette struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Colors    string    `json:"colors"`
	IsSaved   bool      `json:"isSaved"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParsedColors decodes the serialized color array.
func (p *Palette) ParsedColors() ([]PaletteColor, error) {
	var colors []PaletteColor
	if err := json.Unmarshal([]byte(p.Colors), &colors); err != nil {
		return nil, err
	}
	return colors, nil
}

// SavedPalette is the list-endpoint view of a palette with the colors
// column re-parsed from its JSON string.
type SavedPalette struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Name      string         `json:"name"`
	Colors    []PaletteColor `json:"colors"`
	IsSaved   bool           `json:"isSaved"`
	CreatedAt time.Time      `json:"createdAt"`
}
