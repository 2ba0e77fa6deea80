package versioning

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventVersionCreated EventKind = "version.created"
	EventRolledBack     EventKind = "version.rolled_back"
	EventPruned         EventKind = "version.pruned"
)

// Event announces a committed change to one entity's version history.
type Event struct {
	Kind       EventKind  `json:"kind"`
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	// Version is the snapshot written by the change; zero for pruning.
	Version       int       `json:"version,omitempty"`
	TargetVersion int       `json:"target_version,omitempty"`
	DeletedCount  int       `json:"deleted_count,omitempty"`
	ActorID       uuid.UUID `json:"actor_id"`
	At            time.Time `json:"at"`
}
