package aggregates

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

// RequireVersionMatch validates version equality for optimistic locking flows.
func RequireVersionMatch(current, expected int) error {
	if expected < 0 {
		return ValidationError("expected version must be >= 0")
	}
	if current != expected {
		return ConflictError(fmt.Sprintf("version mismatch: latest is %d, caller expected %d", current, expected))
	}
	return nil
}

// RequireEntityTarget validates the (entityType, entityID) pair every versioning write is scoped to.
func RequireEntityTarget(entityType versioning.EntityType, entityID uuid.UUID) error {
	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", versioning.ErrUnknownEntityType, string(entityType))
	}
	if entityID == uuid.Nil {
		return ValidationError("missing entity_id")
	}
	return nil
}
