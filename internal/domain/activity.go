package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is one entry in the activity bank. Skills and Needs are free-tag
// lists; UniversalDesign marks activities following DUA principles.
type Activity struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Discipline  string `gorm:"column:discipline;index" json:"discipline"`

	Skills datatypes.JSON `gorm:"column:skills;type:json" json:"skills"`
	Needs  datatypes.JSON `gorm:"column:needs;type:json" json:"needs"`

	Favorite        bool   `gorm:"column:favorite;not null;default:false" json:"favorite"`
	UniversalDesign bool   `gorm:"column:universal_design;not null;default:false" json:"universal_design"`
	Comment         string `gorm:"column:comment;type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Activity) TableName() string { return "activity" }
