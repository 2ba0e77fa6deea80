package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

var ContentVersionAggregateContract = Contract{
	Name:             "Content.VersionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns gap-free version numbering, snapshot-then-overwrite rollback and retention pruning per entity.",
}

// ContentVersionAggregate owns the write side of an entity's version history.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type ContentVersionAggregate interface {
	Aggregate

	// CreateVersion snapshots the live entity as version max+1.
	CreateVersion(ctx context.Context, in CreateVersionInput) (*versioning.ContentVersion, error)

	// Rollback records the live state as a new snapshot, then overwrites the live
	// versioned fields with the target snapshot, in one transaction.
	Rollback(ctx context.Context, in RollbackInput) (RollbackResult, error)

	// Cleanup deletes every snapshot ranked after the newest KeepLastN.
	Cleanup(ctx context.Context, in CleanupInput) (CleanupResult, error)
}

type CreateVersionInput struct {
	EntityType        versioning.EntityType
	EntityID          uuid.UUID
	AuthorID          uuid.UUID
	ChangeDescription *string
	// ExpectedLatestVersion, when set, fails the write with CodeConflict unless
	// the newest existing snapshot carries exactly this number (0 = no history).
	ExpectedLatestVersion *int
}

type RollbackInput struct {
	EntityType    versioning.EntityType
	EntityID      uuid.UUID
	TargetVersion int
	UserID        uuid.UUID
}

type RollbackResult struct {
	Entity *versioning.Entity
	// Preserved is the snapshot holding the state that the rollback replaced.
	Preserved *versioning.ContentVersion
}

type CleanupInput struct {
	EntityType versioning.EntityType
	EntityID   uuid.UUID
	KeepLastN  int
}

type CleanupResult struct {
	DeletedCount int `json:"deleted_count"`
}
