package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module   *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`

	Title   string `gorm:"column:title;not null" json:"title"`
	Content string `gorm:"column:content;type:text" json:"content"`
	Type    string `gorm:"column:type;not null;default:'text'" json:"type"`
	// Duration is in minutes.
	Duration   int    `gorm:"column:duration;not null;default:0" json:"duration"`
	OrderIndex int    `gorm:"column:order_index;not null;default:0" json:"order_index"`
	VideoURL   string `gorm:"column:video_url" json:"video_url"`
	IsFree     bool   `gorm:"column:is_free;not null;default:false" json:"is_free"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *Lesson) VersionedValues() map[string]any {
	return map[string]any{
		"title":      l.Title,
		"content":    l.Content,
		"type":       l.Type,
		"duration":   l.Duration,
		"orderIndex": l.OrderIndex,
		"videoUrl":   l.VideoURL,
		"isFree":     l.IsFree,
	}
}
