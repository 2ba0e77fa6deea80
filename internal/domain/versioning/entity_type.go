package versioning

import (
	"fmt"
	"strings"
)

// EntityType tags the kind of live content a snapshot belongs to.
type EntityType string

const (
	EntityCourse EntityType = "course"
	EntityModule EntityType = "module"
	EntityLesson EntityType = "lesson"
)

// EntityTypes lists every registered type in a stable order.
func EntityTypes() []EntityType {
	return []EntityType{EntityCourse, EntityModule, EntityLesson}
}

// ParseEntityType normalizes a raw tag and rejects anything unregistered.
func ParseEntityType(raw string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, raw)
	}
	return t, nil
}

func (t EntityType) Valid() bool {
	_, ok := registry[t]
	return ok
}

func (t EntityType) String() string { return string(t) }
