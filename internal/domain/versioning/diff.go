package versioning

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldDiff is one differing versioned field between two snapshots.
type FieldDiff struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// Diff compares two field maps of the same entity type in registry order.
// Values are compared on their canonical JSON encoding, so arrays holding the
// same elements in a different order are reported as different.
func Diff(entityType EntityType, oldFields, newFields map[string]any) ([]FieldDiff, error) {
	names, err := FieldsFor(entityType)
	if err != nil {
		return nil, err
	}
	out := make([]FieldDiff, 0)
	for _, name := range names {
		oldVal, newVal := oldFields[name], newFields[name]
		same, err := Equal(oldVal, newVal)
		if err != nil {
			return nil, fmt.Errorf("compare %s.%s: %w", entityType, name, err)
		}
		if same {
			continue
		}
		out = append(out, FieldDiff{Field: name, OldValue: oldVal, NewValue: newVal})
	}
	return out, nil
}

// Equal reports whether a and b share the same canonical serialization.
func Equal(a, b any) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

// Canonical encodes v as JSON with object keys sorted. Numbers are normalized
// through a decode pass so 10 and 10.0 encode identically.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
