package versioning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentVersion is an immutable, numbered snapshot of one entity's versioned fields.
type ContentVersion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	EntityType EntityType `gorm:"column:entity_type;type:varchar(16);not null;uniqueIndex:idx_content_version_entity_version,priority:1" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"column:entity_id;type:uuid;not null;uniqueIndex:idx_content_version_entity_version,priority:2" json:"entity_id"`
	Version    int        `gorm:"column:version;not null;uniqueIndex:idx_content_version_entity_version,priority:3" json:"version"`

	Fields            datatypes.JSONMap `gorm:"column:fields;not null" json:"fields"`
	AuthorID          uuid.UUID         `gorm:"column:author_id;type:uuid;not null;index" json:"author_id"`
	ChangeDescription *string           `gorm:"column:change_description;type:text" json:"change_description,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_version" }

func (v *ContentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// AfterFind replaces the json.Number values the JSON column decodes into with
// the same types a freshly projected snapshot carries.
func (v *ContentVersion) AfterFind(tx *gorm.DB) error {
	v.Fields = datatypes.JSONMap(NormalizeFields(v.EntityType, v.Fields))
	return nil
}

func (*ContentVersion) BeforeUpdate(tx *gorm.DB) error {
	return ErrSnapshotImmutable
}

// VersionHighWater holds the last version number issued for an entity whose
// history was pruned to nothing, so the next snapshot continues the sequence.
type VersionHighWater struct {
	EntityType EntityType `gorm:"column:entity_type;type:varchar(16);primaryKey" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"column:entity_id;type:uuid;primaryKey" json:"entity_id"`
	Version    int        `gorm:"column:version;not null" json:"version"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (VersionHighWater) TableName() string { return "content_version_high_water" }

// EntityKey identifies one independent version history.
type EntityKey struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
}

// RollbackDescription is the change description recorded on the snapshot
// that preserves the pre-rollback state.
func RollbackDescription(targetVersion int) string {
	return fmt.Sprintf("Rollback to version %d", targetVersion)
}
