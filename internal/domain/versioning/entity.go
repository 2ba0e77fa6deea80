package versioning

import "github.com/google/uuid"

// Entity is the live state of a course, module or lesson as the engine sees it.
// Record carries the full typed row for callers that render it.
type Entity struct {
	Type   EntityType     `json:"entity_type"`
	ID     uuid.UUID      `json:"id"`
	Fields map[string]any `json:"fields"`
	Record any            `json:"record,omitempty"`
}

// Versionable is implemented by live content rows. The returned map is keyed
// by versioned field name.
type Versionable interface {
	VersionedValues() map[string]any
}
