package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TypographyLevel is one rung of a typography scale (Heading 1, Body, ...).
type TypographyLevel struct {
	Level      string `json:"level"`
	Size       string `json:"size"`
	Weight     int    `json:"weight"`
	Sample     string `json:"sample"`
	FontFamily string `json:"fontFamily"`
}

// TypographyPreset is the validated shape of one generated preset.
type TypographyPreset struct {
	Name        []string          `json:"name"`
	FontFamily  string            `json:"fontFamily"`
	Description string            `json:"description"`
	Weight      int               `json:"weight"`
	Levels      []TypographyLevel `json:"levels"`
}

// Typography represents a saved typography preset. Name and Levels hold
// JSON-serialized text, re-parsed by the list endpoint.
type Typography struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	FontFamily string    `json:"fontFamily"`
	Name       string    `json:"name"`
	Levels     string    `json:"levels"`
	Prompt     string    `json:"prompt"`
	IsSaved    bool      `json:"isSaved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ParsedName decodes the serialized name array.
func (t *Typography) ParsedName() ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(t.Name), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ParsedLevels decodes the serialized level array.
func (t *Typography) ParsedLevels() ([]TypographyLevel, error) {
	var levels []TypographyLevel
	if err := json.Unmarshal([]byte(t.Levels), &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// SavedTypography is the list-endpoint view with name and levels re-parsed.
type SavedTypography struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"userId"`
	FontFamily string            `json:"fontFamily"`
	Name       []string          `json:"name"`
	Levels     []TypographyLevel `json:"levels"`
	Prompt     string            `json:"prompt"`
	IsSaved    bool              `json:"isSaved"`
	CreatedAt  time.Time         `json:"createdAt"`
}
