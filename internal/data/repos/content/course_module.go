package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type CourseModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error)
	GetByID(dbc dbctx.Context, moduleID uuid.UUID, forUpdate bool) (*types.CourseModule, error)
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseModule, error)
	UpdateColumns(dbc dbctx.Context, moduleID uuid.UUID, updates map[string]any) (int64, error)
	SoftDeleteByIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) error
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	repoLog := baseLog.With("repo", "CourseModuleRepo")
	return &courseModuleRepo{db: db, log: repoLog}
}

func (r *courseModuleRepo) Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error) {
	if len(modules) == 0 {
		return []*types.CourseModule{}, nil
	}
	if err := dbc.DB(r.db).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByID(dbc dbctx.Context, moduleID uuid.UUID, forUpdate bool) (*types.CourseModule, error) {
	if moduleID == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []*types.CourseModule
	if err := q.Where("id = ?", moduleID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseModuleRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseModule, error) {
	var results []*types.CourseModule
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id IN ?", courseIDs).
		Order("course_id, order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseModuleRepo) UpdateColumns(dbc dbctx.Context, moduleID uuid.UUID, updates map[string]any) (int64, error) {
	if moduleID == uuid.Nil || len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.CourseModule{}).
		Where("id = ?", moduleID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *courseModuleRepo) SoftDeleteByIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("id IN ?", moduleIDs).
		Delete(&types.CourseModule{}).Error
}
