package content

import (
	"sort"
	"testing"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

func TestVersionedValuesMatchRegistry(t *testing.T) {
	rows := map[versioning.EntityType]versioning.Versionable{
		versioning.EntityCourse: &Course{},
		versioning.EntityModule: &CourseModule{},
		versioning.EntityLesson: &Lesson{},
	}
	for et, row := range rows {
		want, err := versioning.FieldsFor(et)
		if err != nil {
			t.Fatalf("FieldsFor(%s): %v", et, err)
		}
		got := make([]string, 0)
		for k := range row.VersionedValues() {
			got = append(got, k)
		}
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("%s: key count want=%d got=%d (%v)", et, len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: keys differ want=%v got=%v", et, want, got)
			}
		}
	}
}

func TestRegistryColumnsExistOnModels(t *testing.T) {
	columns := map[versioning.EntityType]map[string]bool{
		versioning.EntityCourse: {"title": true, "description": true, "short_description": true, "level": true, "language": true, "duration": true, "price": true, "tags": true, "learning_objectives": true, "requirements": true, "target_audience": true},
		versioning.EntityModule: {"title": true, "description": true, "order_index": true},
		versioning.EntityLesson: {"title": true, "content": true, "type": true, "duration": true, "order_index": true, "video_url": true, "is_free": true},
	}
	for et, cols := range columns {
		specs, err := versioning.FieldSpecs(et)
		if err != nil {
			t.Fatalf("FieldSpecs(%s): %v", et, err)
		}
		for _, f := range specs {
			if !cols[f.Column] {
				t.Fatalf("%s.%s maps to unknown column %q", et, f.Name, f.Column)
			}
		}
	}
}
