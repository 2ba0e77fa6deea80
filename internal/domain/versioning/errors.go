package versioning

import "errors"

var (
	// ErrUnknownEntityType is returned for entity type tags outside the registry.
	ErrUnknownEntityType = errors.New("unknown entity type")
	// ErrEntityNotFound means the live course/module/lesson does not exist.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrVersionNotFound means no snapshot exists for the requested version number.
	ErrVersionNotFound = errors.New("version not found")
	// ErrConcurrentVersionConflict means version-number assignment kept racing
	// with another writer after all retries were spent.
	ErrConcurrentVersionConflict = errors.New("concurrent version conflict")
	// ErrSnapshotImmutable is returned when something tries to update a stored snapshot.
	ErrSnapshotImmutable = errors.New("content version snapshots are immutable")
)
