package app

import (
	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type Repos struct {
	Course         repos.CourseRepo
	CourseModule   repos.CourseModuleRepo
	Lesson         repos.LessonRepo
	ContentEntity  repos.ContentEntityRepo
	ContentVersion repos.ContentVersionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	course := repos.NewCourseRepo(db, log)
	module := repos.NewCourseModuleRepo(db, log)
	lesson := repos.NewLessonRepo(db, log)
	return Repos{
		Course:         course,
		CourseModule:   module,
		Lesson:         lesson,
		ContentEntity:  repos.NewContentEntityRepo(course, module, lesson, log),
		ContentVersion: repos.NewContentVersionRepo(db, log),
	}
}
