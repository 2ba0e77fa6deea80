package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, lessonID uuid.UUID, forUpdate bool) (*types.Lesson, error)
	GetByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	UpdateColumns(dbc dbctx.Context, lessonID uuid.UUID, updates map[string]any) (int64, error)
	SoftDeleteByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.DB(r.db).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, lessonID uuid.UUID, forUpdate bool) (*types.Lesson, error) {
	if lessonID == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []*types.Lesson
	if err := q.Where("id = ?", lessonID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *lessonRepo) GetByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) UpdateColumns(dbc dbctx.Context, lessonID uuid.UUID, updates map[string]any) (int64, error) {
	if lessonID == uuid.Nil || len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *lessonRepo) SoftDeleteByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("id IN ?", lessonIDs).
		Delete(&types.Lesson{}).Error
}
