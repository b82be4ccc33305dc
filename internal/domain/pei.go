package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pei is one persisted individualized educational plan. Data holds the
// field-id -> text mapping; AIGeneratedFields is the set of field-ids whose
// current content came from the model; SmartAnalysis maps goal field-ids to
// their structured critique.
type Pei struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	StudentName string `gorm:"column:student_name;not null;index" json:"student_name"`

	Data              datatypes.JSON `gorm:"column:data;type:json" json:"data"`
	AIGeneratedFields datatypes.JSON `gorm:"column:ai_generated_fields;type:json" json:"ai_generated_fields"`
	SmartAnalysis     datatypes.JSON `gorm:"column:smart_analysis;type:json" json:"smart_analysis"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Pei) TableName() string { return "pei" }
