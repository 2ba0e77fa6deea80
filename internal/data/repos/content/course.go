package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, courseID uuid.UUID, forUpdate bool) (*types.Course, error)
	UpdateColumns(dbc dbctx.Context, courseID uuid.UUID, updates map[string]any) (int64, error)
	SoftDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when the course does not exist or is soft deleted.
func (r *courseRepo) GetByID(dbc dbctx.Context, courseID uuid.UUID, forUpdate bool) (*types.Course, error) {
	if courseID == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []*types.Course
	if err := q.Where("id = ?", courseID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseRepo) UpdateColumns(dbc dbctx.Context, courseID uuid.UUID, updates map[string]any) (int64, error) {
	if courseID == uuid.Nil || len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *courseRepo) SoftDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("id IN ?", courseIDs).
		Delete(&types.Course{}).Error
}
