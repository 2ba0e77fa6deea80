package repos

import (
	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos/content"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type CourseRepo = content.CourseRepo
type CourseModuleRepo = content.CourseModuleRepo
type LessonRepo = content.LessonRepo
type ContentEntityRepo = content.EntityRepo

type ContentVersionRepo = versioning.ContentVersionRepo

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return content.NewCourseRepo(db, baseLog)
}
func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return content.NewCourseModuleRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return content.NewLessonRepo(db, baseLog)
}
func NewContentEntityRepo(courses CourseRepo, modules CourseModuleRepo, lessons LessonRepo, baseLog *logger.Logger) ContentEntityRepo {
	return content.NewEntityRepoFrom(courses, modules, lessons, baseLog)
}

func NewContentVersionRepo(db *gorm.DB, baseLog *logger.Logger) ContentVersionRepo {
	return versioning.NewContentVersionRepo(db, baseLog)
}
