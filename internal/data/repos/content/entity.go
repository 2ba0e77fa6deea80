package content

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

// EntityRepo reads and writes the versioned fields of live content rows
// without the caller knowing which table backs an entity type.
type EntityRepo interface {
	// Load returns versioning.ErrEntityNotFound when no live row exists.
	Load(dbc dbctx.Context, entityType versioning.EntityType, id uuid.UUID, forUpdate bool) (*versioning.Entity, error)
	// Overwrite replaces every versioned column of the live row with fields.
	// fields must carry the complete field set of entityType.
	Overwrite(dbc dbctx.Context, entityType versioning.EntityType, id uuid.UUID, fields map[string]any) error
}

type entityRepo struct {
	courses CourseRepo
	modules CourseModuleRepo
	lessons LessonRepo
	log     *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return NewEntityRepoFrom(
		NewCourseRepo(db, baseLog),
		NewCourseModuleRepo(db, baseLog),
		NewLessonRepo(db, baseLog),
		baseLog,
	)
}

func NewEntityRepoFrom(courses CourseRepo, modules CourseModuleRepo, lessons LessonRepo, baseLog *logger.Logger) EntityRepo {
	return &entityRepo{
		courses: courses,
		modules: modules,
		lessons: lessons,
		log:     baseLog.With("repo", "ContentEntityRepo"),
	}
}

func (r *entityRepo) Load(dbc dbctx.Context, entityType versioning.EntityType, id uuid.UUID, forUpdate bool) (*versioning.Entity, error) {
	record, err := r.loadRecord(dbc, entityType, id, forUpdate)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s %s", versioning.ErrEntityNotFound, entityType, id)
	}
	fields, err := versioning.Project(entityType, record.VersionedValues())
	if err != nil {
		return nil, err
	}
	return &versioning.Entity{Type: entityType, ID: id, Fields: fields, Record: record}, nil
}

func (r *entityRepo) Overwrite(dbc dbctx.Context, entityType versioning.EntityType, id uuid.UUID, fields map[string]any) error {
	specs, err := versioning.FieldSpecs(entityType)
	if err != nil {
		return err
	}
	updates := make(map[string]any, len(specs))
	for _, f := range specs {
		v, ok := fields[f.Name]
		if !ok {
			return fmt.Errorf("%s snapshot is missing field %q", entityType, f.Name)
		}
		col, err := versioning.ColumnValue(f.Kind, v)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", entityType, f.Name, err)
		}
		updates[f.Column] = col
	}

	var affected int64
	switch entityType {
	case versioning.EntityCourse:
		affected, err = r.courses.UpdateColumns(dbc, id, updates)
	case versioning.EntityModule:
		affected, err = r.modules.UpdateColumns(dbc, id, updates)
	case versioning.EntityLesson:
		affected, err = r.lessons.UpdateColumns(dbc, id, updates)
	default:
		return fmt.Errorf("%w: %q", versioning.ErrUnknownEntityType, string(entityType))
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %s", versioning.ErrEntityNotFound, entityType, id)
	}
	return nil
}

// loadRecord returns a nil record when the row does not exist. Typed nil
// pointers are never returned through the interface.
func (r *entityRepo) loadRecord(dbc dbctx.Context, entityType versioning.EntityType, id uuid.UUID, forUpdate bool) (versioning.Versionable, error) {
	switch entityType {
	case versioning.EntityCourse:
		row, err := r.courses.GetByID(dbc, id, forUpdate)
		if err != nil || row == nil {
			return nil, err
		}
		return row, nil
	case versioning.EntityModule:
		row, err := r.modules.GetByID(dbc, id, forUpdate)
		if err != nil || row == nil {
			return nil, err
		}
		return row, nil
	case versioning.EntityLesson:
		row, err := r.lessons.GetByID(dbc, id, forUpdate)
		if err != nil || row == nil {
			return nil, err
		}
		return row, nil
	default:
		return nil, fmt.Errorf("%w: %q", versioning.ErrUnknownEntityType, string(entityType))
	}
}

var (
	_ versioning.Versionable = (*types.Course)(nil)
	_ versioning.Versionable = (*types.CourseModule)(nil)
	_ versioning.Versionable = (*types.Lesson)(nil)
)
