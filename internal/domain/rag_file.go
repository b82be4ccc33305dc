package types

import (
	"time"

	"github.com/google/uuid"
)

// RagFile is a support attachment whose text was already extracted upstream.
// The editor core only reads these as prompt context.
type RagFile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Filename string `gorm:"column:filename;not null" json:"filename"`
	Content  string `gorm:"column:content;type:text" json:"content"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RagFile) TableName() string { return "rag_file" }
