package domain

import (
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/content"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

type Course = content.Course
type CourseModule = content.CourseModule
type Lesson = content.Lesson

type ContentVersion = versioning.ContentVersion
type VersionHighWater = versioning.VersionHighWater
type EntityType = versioning.EntityType
type FieldDiff = versioning.FieldDiff

const (
	EntityCourse = versioning.EntityCourse
	EntityModule = versioning.EntityModule
	EntityLesson = versioning.EntityLesson
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&Course{},
		&CourseModule{},
		&Lesson{},
		&ContentVersion{},
		&VersionHighWater{},
	}
}
