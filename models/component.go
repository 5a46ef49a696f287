package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CodeFile is one source file of a generated UI component.
type CodeFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// CodeFiles is a list of code files stored as a JSONB column.
type CodeFiles []CodeFile

// Value implements driver.Valuer for JSONB
func (c CodeFiles) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *CodeFiles) Scan(value interface{}) error {
	if value == nil {
		*c = make(CodeFiles, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(CodeFiles, 0)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(CodeFiles, 0)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// GeneratedComponent is the validated shape of a component produced by the
// completion API, before the user decides to save it.
type GeneratedComponent struct {
	Description   string    `json:"description"`
	TechStack     string    `json:"techStack"`
	ComponentName string    `json:"componentName"`
	Category      string    `json:"category"`
	CodeFiles     CodeFiles `json:"codeFiles"`
	PreviewCode   string    `json:"previewCode"`
}

// Component represents a saved UI component.
type Component struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	ComponentName string    `json:"componentName"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	TechStack     string    `json:"techStack"`
	CodeFiles     CodeFiles `json:"codeFiles"`
	PreviewCode   string    `json:"previewCode"`
	IsSaved       bool      `json:"isSaved"`
	CreatedAt     time.Time `json:"createdAt"`
}
