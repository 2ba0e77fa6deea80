package versioning

import (
	"errors"
	"reflect"
	"testing"
)

func TestFieldsForRegistryOrder(t *testing.T) {
	cases := map[EntityType][]string{
		EntityCourse: {"title", "description", "shortDescription", "level", "language", "duration", "price", "tags", "learningObjectives", "requirements", "targetAudience"},
		EntityModule: {"title", "description", "orderIndex"},
		EntityLesson: {"title", "content", "type", "duration", "orderIndex", "videoUrl", "isFree"},
	}
	for et, want := range cases {
		got, err := FieldsFor(et)
		if err != nil {
			t.Fatalf("FieldsFor(%s): %v", et, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("FieldsFor(%s): want=%v got=%v", et, want, got)
		}
	}
}

func TestFieldsForUnknownType(t *testing.T) {
	for _, raw := range []string{"", "quiz", "Courses"} {
		if _, err := FieldsFor(EntityType(raw)); !errors.Is(err, ErrUnknownEntityType) {
			t.Fatalf("FieldsFor(%q): expected ErrUnknownEntityType, got %v", raw, err)
		}
	}
}

func TestFieldsForReturnsCopy(t *testing.T) {
	a, _ := FieldsFor(EntityModule)
	a[0] = "mutated"
	b, _ := FieldsFor(EntityModule)
	if b[0] != "title" {
		t.Fatalf("registry leaked internal slice: %v", b)
	}
}

func TestParseEntityType(t *testing.T) {
	got, err := ParseEntityType("  Lesson ")
	if err != nil || got != EntityLesson {
		t.Fatalf("ParseEntityType: got=%q err=%v", got, err)
	}
	if _, err := ParseEntityType("certificate"); !errors.Is(err, ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}
}

func TestProjectKeepsExactlyRegisteredKeys(t *testing.T) {
	in := map[string]any{"title": "t", "description": "d", "orderIndex": 2, "courseId": "x"}
	out, err := Project(EntityModule, in)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 keys, got %v", out)
	}
	if _, ok := out["courseId"]; ok {
		t.Fatalf("non-versioned key leaked into projection")
	}
	delete(in, "orderIndex")
	if _, err := Project(EntityModule, in); err == nil {
		t.Fatalf("expected error for missing field")
	}
}

func TestTableFor(t *testing.T) {
	for et, want := range map[EntityType]string{EntityCourse: "course", EntityModule: "course_module", EntityLesson: "lesson"} {
		got, err := TableFor(et)
		if err != nil || got != want {
			t.Fatalf("TableFor(%s): got=%q err=%v", et, got, err)
		}
	}
}

func TestRollbackDescription(t *testing.T) {
	if got := RollbackDescription(3); got != "Rollback to version 3" {
		t.Fatalf("RollbackDescription: %q", got)
	}
}
