package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Slug         string    `gorm:"column:slug;index" json:"slug"`
	Status       string    `gorm:"column:status;not null;default:'draft';index" json:"status"`

	Title            string `gorm:"column:title;not null" json:"title"`
	Description      string `gorm:"column:description;type:text" json:"description"`
	ShortDescription string `gorm:"column:short_description" json:"short_description"`
	Level            string `gorm:"column:level" json:"level"`
	Language         string `gorm:"column:language" json:"language"`
	// Duration is in minutes.
	Duration           int            `gorm:"column:duration;not null;default:0" json:"duration"`
	Price              float64        `gorm:"column:price;not null;default:0" json:"price"`
	Tags               datatypes.JSON `gorm:"column:tags" json:"tags"`
	LearningObjectives datatypes.JSON `gorm:"column:learning_objectives" json:"learning_objectives"`
	Requirements       datatypes.JSON `gorm:"column:requirements" json:"requirements"`
	TargetAudience     string         `gorm:"column:target_audience;type:text" json:"target_audience"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Course) VersionedValues() map[string]any {
	return map[string]any{
		"title":              c.Title,
		"description":        c.Description,
		"shortDescription":   c.ShortDescription,
		"level":              c.Level,
		"language":           c.Language,
		"duration":           c.Duration,
		"price":              c.Price,
		"tags":               versioning.DecodeJSONValue(c.Tags),
		"learningObjectives": versioning.DecodeJSONValue(c.LearningObjectives),
		"requirements":       versioning.DecodeJSONValue(c.Requirements),
		"targetAudience":     c.TargetAudience,
	}
}
