package versioning

import "fmt"

// FieldKind describes how a versioned value is stored on the live row.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindDecimal
	KindBool
	KindJSON
)

// Field is one versioned field: its snapshot key, the live column it maps to,
// and the kind used when writing a snapshot value back.
type Field struct {
	Name   string
	Column string
	Kind   FieldKind
}

type fieldSet struct {
	table  string
	fields []Field
}

var registry = map[EntityType]fieldSet{
	EntityCourse: {
		table: "course",
		fields: []Field{
			{Name: "title", Column: "title", Kind: KindText},
			{Name: "description", Column: "description", Kind: KindText},
			{Name: "shortDescription", Column: "short_description", Kind: KindText},
			{Name: "level", Column: "level", Kind: KindText},
			{Name: "language", Column: "language", Kind: KindText},
			{Name: "duration", Column: "duration", Kind: KindInt},
			{Name: "price", Column: "price", Kind: KindDecimal},
			{Name: "tags", Column: "tags", Kind: KindJSON},
			{Name: "learningObjectives", Column: "learning_objectives", Kind: KindJSON},
			{Name: "requirements", Column: "requirements", Kind: KindJSON},
			{Name: "targetAudience", Column: "target_audience", Kind: KindText},
		},
	},
	EntityModule: {
		table: "course_module",
		fields: []Field{
			{Name: "title", Column: "title", Kind: KindText},
			{Name: "description", Column: "description", Kind: KindText},
			{Name: "orderIndex", Column: "order_index", Kind: KindInt},
		},
	},
	EntityLesson: {
		table: "lesson",
		fields: []Field{
			{Name: "title", Column: "title", Kind: KindText},
			{Name: "content", Column: "content", Kind: KindText},
			{Name: "type", Column: "type", Kind: KindText},
			{Name: "duration", Column: "duration", Kind: KindInt},
			{Name: "orderIndex", Column: "order_index", Kind: KindInt},
			{Name: "videoUrl", Column: "video_url", Kind: KindText},
			{Name: "isFree", Column: "is_free", Kind: KindBool},
		},
	},
}

// FieldsFor returns the ordered versioned field names for entityType.
func FieldsFor(entityType EntityType) ([]string, error) {
	set, ok := registry[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, string(entityType))
	}
	out := make([]string, len(set.fields))
	for i, f := range set.fields {
		out[i] = f.Name
	}
	return out, nil
}

// FieldSpecs returns the full field descriptors for entityType in registry order.
func FieldSpecs(entityType EntityType) ([]Field, error) {
	set, ok := registry[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, string(entityType))
	}
	out := make([]Field, len(set.fields))
	copy(out, set.fields)
	return out, nil
}

// TableFor returns the live table holding entities of entityType.
func TableFor(entityType EntityType) (string, error) {
	set, ok := registry[entityType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, string(entityType))
	}
	return set.table, nil
}

// Project restricts values to exactly the versioned field set of entityType
// and normalizes them. Every registered field must be present in values;
// extra keys are dropped.
func Project(entityType EntityType, values map[string]any) (map[string]any, error) {
	specs, err := FieldSpecs(entityType)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(specs))
	for _, f := range specs {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("%s field set is missing %q", entityType, f.Name)
		}
		out[f.Name] = normalizeField(f.Kind, v)
	}
	return out, nil
}
