package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), true)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrateAll(db); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	return db
}

func TestAutoMigrateAllIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := AutoMigrateAll(db); err != nil {
		t.Fatalf("second AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"course", "course_module", "lesson", "content_version", "content_version_high_water"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestContentVersionUniqueIndexRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	entityID := uuid.New()
	mk := func() *versioning.ContentVersion {
		return &versioning.ContentVersion{
			EntityType: versioning.EntityModule,
			EntityID:   entityID,
			Version:    1,
			Fields:     datatypes.JSONMap{"title": "t", "description": "", "orderIndex": 0},
			AuthorID:   uuid.New(),
		}
	}
	if err := db.Create(mk()).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.Create(mk()).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestContentVersionRejectsUpdates(t *testing.T) {
	db := openTestDB(t)
	row := &versioning.ContentVersion{
		EntityType: versioning.EntityLesson,
		EntityID:   uuid.New(),
		Version:    1,
		Fields:     datatypes.JSONMap{},
		AuthorID:   uuid.New(),
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := db.Model(row).Update("version", 2).Error
	if !errors.Is(err, versioning.ErrSnapshotImmutable) {
		t.Fatalf("expected ErrSnapshotImmutable, got %v", err)
	}
}
