package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:                 uuid.New(),
		TenantID:           uuid.New(),
		InstructorID:       uuid.New(),
		Slug:               "course-" + uuid.NewString()[:8],
		Status:             "draft",
		Title:              title,
		Description:        "A course",
		ShortDescription:   "short",
		Level:              "beginner",
		Language:           "hr",
		Duration:           120,
		Price:              49.5,
		Tags:               datatypes.JSON([]byte(`["go","sql"]`)),
		LearningObjectives: datatypes.JSON([]byte(`["write queries"]`)),
		Requirements:       datatypes.JSON([]byte(`[]`)),
		TargetAudience:     "developers",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, index int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       "module",
		Description: "module description",
		OrderIndex:  index,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed course module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, index int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:         uuid.New(),
		ModuleID:   moduleID,
		Title:      "lesson",
		Content:    "content",
		Type:       "text",
		Duration:   10,
		OrderIndex: index,
		VideoURL:   "",
		IsFree:     false,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedContentVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID, version int, fields map[string]any) *types.ContentVersion {
	tb.Helper()
	v := &types.ContentVersion{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Version:    version,
		Fields:     datatypes.JSONMap(fields),
		AuthorID:   uuid.New(),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed content version: %v", err)
	}
	return v
}
