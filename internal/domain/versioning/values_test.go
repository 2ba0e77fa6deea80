package versioning

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestColumnValue(t *testing.T) {
	if v, err := ColumnValue(KindInt, float64(15)); err != nil || v != int64(15) {
		t.Fatalf("int from float64: v=%v err=%v", v, err)
	}
	if _, err := ColumnValue(KindInt, 1.5); err == nil {
		t.Fatalf("expected error for fractional int")
	}
	if v, err := ColumnValue(KindDecimal, float64(19.5)); err != nil || v != 19.5 {
		t.Fatalf("decimal: v=%v err=%v", v, err)
	}
	if v, err := ColumnValue(KindBool, true); err != nil || v != true {
		t.Fatalf("bool: v=%v err=%v", v, err)
	}
	if _, err := ColumnValue(KindBool, "yes"); err == nil {
		t.Fatalf("expected error for string bool")
	}
	if v, err := ColumnValue(KindText, nil); err != nil || v != "" {
		t.Fatalf("nil text: v=%v err=%v", v, err)
	}
	v, err := ColumnValue(KindJSON, []any{"go", "sql"})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if string(v.(datatypes.JSON)) != `["go","sql"]` {
		t.Fatalf("json encoding: %s", v)
	}
}

func TestDecodeJSONValue(t *testing.T) {
	got := DecodeJSONValue(datatypes.JSON(`["a","b"]`))
	arr, ok := got.([]any)
	if !ok || len(arr) != 2 || arr[0] != "a" {
		t.Fatalf("DecodeJSONValue: %#v", got)
	}
	mixed := DecodeJSONValue(datatypes.JSON(`[1, 2.5]`)).([]any)
	if mixed[0] != int64(1) || mixed[1] != 2.5 {
		t.Fatalf("DecodeJSONValue numbers: %#v", mixed)
	}
	if DecodeJSONValue(nil) != nil {
		t.Fatalf("empty column should decode to nil")
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{json.Number("25"), int64(25)},
		{json.Number("2.5"), 2.5},
		{float64(4), int64(4)},
		{1.25, 1.25},
		{7, int64(7)},
		{"x", "x"},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := NormalizeValue(tc.in); got != tc.want {
			t.Fatalf("NormalizeValue(%#v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}

	nested := NormalizeValue(map[string]any{"a": []any{json.Number("1"), map[string]any{"b": json.Number("0.5")}}}).(map[string]any)
	arr := nested["a"].([]any)
	if arr[0] != int64(1) || arr[1].(map[string]any)["b"] != 0.5 {
		t.Fatalf("nested: %#v", nested)
	}
}

func TestNormalizeFieldsUsesFieldKind(t *testing.T) {
	got := NormalizeFields(EntityCourse, map[string]any{
		"duration": json.Number("30"),
		"price":    json.Number("19"),
		"title":    "t",
	})
	if got["duration"] != int64(30) {
		t.Fatalf("duration: %#v", got["duration"])
	}
	if got["price"] != float64(19) {
		t.Fatalf("price should stay float64: %#v", got["price"])
	}
	if got["title"] != "t" {
		t.Fatalf("title: %#v", got["title"])
	}

	projected, err := Project(EntityModule, map[string]any{"title": "t", "description": "", "orderIndex": 3})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	stored := NormalizeFields(EntityModule, map[string]any{"title": "t", "description": "", "orderIndex": json.Number("3")})
	if projected["orderIndex"] != stored["orderIndex"] {
		t.Fatalf("live %#v and stored %#v disagree", projected["orderIndex"], stored["orderIndex"])
	}
}

func TestRetentionPolicyKeepFor(t *testing.T) {
	p := RetentionPolicy{DefaultKeepLastN: 5, PerType: map[EntityType]int{EntityCourse: 20, EntityLesson: 0}}
	if got := p.KeepFor(EntityCourse); got != 20 {
		t.Fatalf("course: %d", got)
	}
	if got := p.KeepFor(EntityLesson); got != 5 {
		t.Fatalf("lesson should fall back to default, got %d", got)
	}
	if got := (RetentionPolicy{}).KeepFor(EntityModule); got != DefaultKeepLastN {
		t.Fatalf("zero policy: %d", got)
	}
}
