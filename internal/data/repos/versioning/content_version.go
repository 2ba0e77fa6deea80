package versioning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type ContentVersionRepo interface {
	Create(dbc dbctx.Context, row *types.ContentVersion) error
	// MaxVersion returns 0 when the entity has no snapshots.
	MaxVersion(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int, error)
	// GetByVersion returns nil, nil when the snapshot does not exist.
	GetByVersion(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error)
	GetByVersions(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, versions []int) ([]*types.ContentVersion, error)
	// ListByEntity returns snapshots ordered by version descending.
	ListByEntity(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) ([]*types.ContentVersion, error)
	CountByEntity(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	// ListEntitiesExceeding returns every entity of entityType holding more than keep snapshots.
	ListEntitiesExceeding(dbc dbctx.Context, entityType types.EntityType, keep int) ([]uuid.UUID, error)
	// HighWater returns 0 when no high-water mark was ever recorded.
	HighWater(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int, error)
	SetHighWater(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, version int) error
}

type contentVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentVersionRepo(db *gorm.DB, baseLog *logger.Logger) ContentVersionRepo {
	repoLog := baseLog.With("repo", "ContentVersionRepo")
	return &contentVersionRepo{db: db, log: repoLog}
}

func (r *contentVersionRepo) Create(dbc dbctx.Context, row *types.ContentVersion) error {
	if row == nil {
		return nil
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *contentVersionRepo) MaxVersion(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int, error) {
	var maxVersion int64
	if err := dbc.DB(r.db).
		Model(&types.ContentVersion{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error; err != nil {
		return 0, err
	}
	return int(maxVersion), nil
}

func (r *contentVersionRepo) GetByVersion(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error) {
	var rows []*types.ContentVersion
	if err := dbc.DB(r.db).
		Where("entity_type = ? AND entity_id = ? AND version = ?", entityType, entityID, version).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentVersionRepo) GetByVersions(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, versions []int) ([]*types.ContentVersion, error) {
	var results []*types.ContentVersion
	if len(versions) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("entity_type = ? AND entity_id = ? AND version IN ?", entityType, entityID, versions).
		Order("version ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentVersionRepo) ListByEntity(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) ([]*types.ContentVersion, error) {
	var results []*types.ContentVersion
	if err := dbc.DB(r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("version DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentVersionRepo) CountByEntity(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.ContentVersion{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *contentVersionRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&types.ContentVersion{})
	return res.RowsAffected, res.Error
}

func (r *contentVersionRepo) ListEntitiesExceeding(dbc dbctx.Context, entityType types.EntityType, keep int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if keep < 0 {
		keep = 0
	}
	if err := dbc.DB(r.db).
		Model(&types.ContentVersion{}).
		Where("entity_type = ?", entityType).
		Group("entity_id").
		Having("COUNT(*) > ?", keep).
		Order("entity_id").
		Pluck("entity_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *contentVersionRepo) HighWater(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID) (int, error) {
	var version int64
	if err := dbc.DB(r.db).
		Model(&types.VersionHighWater{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&version).Error; err != nil {
		return 0, err
	}
	return int(version), nil
}

func (r *contentVersionRepo) SetHighWater(dbc dbctx.Context, entityType types.EntityType, entityID uuid.UUID, version int) error {
	row := &types.VersionHighWater{EntityType: entityType, EntityID: entityID, Version: version}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "updated_at"}),
		}).
		Create(row).Error
}
