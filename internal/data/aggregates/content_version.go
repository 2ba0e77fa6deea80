package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos"
	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
)

type ContentVersionAggregateDeps struct {
	Base BaseDeps

	Entities repos.ContentEntityRepo
	Versions repos.ContentVersionRepo

	// Retry bounds re-running a write whose version number lost a race.
	Retry RetryPolicy
}

type contentVersionAggregate struct {
	deps ContentVersionAggregateDeps
}

func NewContentVersionAggregate(deps ContentVersionAggregateDeps) domainagg.ContentVersionAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Retry = deps.Retry.withDefaults()
	return &contentVersionAggregate{deps: deps}
}

func (a *contentVersionAggregate) Contract() domainagg.Contract {
	return domainagg.ContentVersionAggregateContract
}

func (a *contentVersionAggregate) CreateVersion(ctx context.Context, in domainagg.CreateVersionInput) (*versioning.ContentVersion, error) {
	const op = "Content.Version.Create"
	if err := RequireEntityTarget(in.EntityType, in.EntityID); err != nil {
		return nil, MapError(op, err)
	}
	if in.AuthorID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing author_id", nil)
	}
	if err := a.requireRepos(op); err != nil {
		return nil, err
	}

	var out *versioning.ContentVersion
	err := withEntityLock(ctx, a.deps.Base, op, EntityLockKey(in.EntityType, in.EntityID), func() error {
		return executeWriteWithRetry(ctx, a.deps.Base, op, a.versionRetry(), func(dbc dbctx.Context) error {
			out = nil
			ent, err := a.deps.Entities.Load(dbc, in.EntityType, in.EntityID, true)
			if err != nil {
				return err
			}
			row, err := a.appendSnapshot(dbc, ent, in.AuthorID, in.ChangeDescription, in.ExpectedLatestVersion)
			if err != nil {
				return err
			}
			out = row
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *contentVersionAggregate) Rollback(ctx context.Context, in domainagg.RollbackInput) (domainagg.RollbackResult, error) {
	const op = "Content.Version.Rollback"
	var out domainagg.RollbackResult
	if err := RequireEntityTarget(in.EntityType, in.EntityID); err != nil {
		return out, MapError(op, err)
	}
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.TargetVersion < 1 {
		return out, MapError(op, fmt.Errorf("%w: %s %s v%d", versioning.ErrVersionNotFound, in.EntityType, in.EntityID, in.TargetVersion))
	}
	if err := a.requireRepos(op); err != nil {
		return out, err
	}

	description := versioning.RollbackDescription(in.TargetVersion)
	err := withEntityLock(ctx, a.deps.Base, op, EntityLockKey(in.EntityType, in.EntityID), func() error {
		return executeWriteWithRetry(ctx, a.deps.Base, op, a.versionRetry(), func(dbc dbctx.Context) error {
			out = domainagg.RollbackResult{}

			target, err := a.deps.Versions.GetByVersion(dbc, in.EntityType, in.EntityID, in.TargetVersion)
			if err != nil {
				return err
			}
			if target == nil {
				return fmt.Errorf("%w: %s %s v%d", versioning.ErrVersionNotFound, in.EntityType, in.EntityID, in.TargetVersion)
			}

			current, err := a.deps.Entities.Load(dbc, in.EntityType, in.EntityID, true)
			if err != nil {
				return err
			}
			preserved, err := a.appendSnapshot(dbc, current, in.UserID, &description, nil)
			if err != nil {
				return err
			}

			if err := a.deps.Entities.Overwrite(dbc, in.EntityType, in.EntityID, map[string]any(target.Fields)); err != nil {
				return err
			}
			updated, err := a.deps.Entities.Load(dbc, in.EntityType, in.EntityID, false)
			if err != nil {
				return err
			}
			out = domainagg.RollbackResult{Entity: updated, Preserved: preserved}
			return nil
		})
	})
	if err != nil {
		return domainagg.RollbackResult{}, err
	}
	return out, nil
}

func (a *contentVersionAggregate) Cleanup(ctx context.Context, in domainagg.CleanupInput) (domainagg.CleanupResult, error) {
	const op = "Content.Version.Cleanup"
	var out domainagg.CleanupResult
	if err := RequireEntityTarget(in.EntityType, in.EntityID); err != nil {
		return out, MapError(op, err)
	}
	if in.KeepLastN < 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("keep_last_n must be >= 0, got %d", in.KeepLastN), nil)
	}
	if err := a.requireRepos(op); err != nil {
		return out, err
	}

	err := withEntityLock(ctx, a.deps.Base, op, EntityLockKey(in.EntityType, in.EntityID), func() error {
		return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			out = domainagg.CleanupResult{}
			rows, err := a.deps.Versions.ListByEntity(dbc, in.EntityType, in.EntityID)
			if err != nil {
				return err
			}
			if len(rows) <= in.KeepLastN {
				return nil
			}
			if in.KeepLastN == 0 {
				if err := a.deps.Versions.SetHighWater(dbc, in.EntityType, in.EntityID, rows[0].Version); err != nil {
					return err
				}
			}
			// rows are newest first; everything past the window goes.
			stale := rows[in.KeepLastN:]
			ids := make([]uuid.UUID, 0, len(stale))
			for _, row := range stale {
				ids = append(ids, row.ID)
			}
			deleted, err := a.deps.Versions.DeleteByIDs(dbc, ids)
			if err != nil {
				return err
			}
			if int(deleted) != len(ids) {
				return InvariantError(fmt.Sprintf("cleanup deleted %d of %d stale snapshots", deleted, len(ids)))
			}
			out.DeletedCount = int(deleted)
			return nil
		})
	})
	if err != nil {
		return domainagg.CleanupResult{}, err
	}
	if out.DeletedCount > 0 {
		a.deps.Base.Log.Info("pruned content versions",
			"entity_type", in.EntityType,
			"entity_id", in.EntityID,
			"deleted", out.DeletedCount,
			"keep_last_n", in.KeepLastN,
		)
	}
	return out, nil
}

// appendSnapshot records ent's current versioned fields as the next version
// after both the stored history and the high-water mark. It must run inside
// the caller's transaction so numbering and insert commit together.
// expectedLatest is checked against the newest stored snapshot.
func (a *contentVersionAggregate) appendSnapshot(dbc dbctx.Context, ent *versioning.Entity, authorID uuid.UUID, description *string, expectedLatest *int) (*versioning.ContentVersion, error) {
	latest, err := a.deps.Versions.MaxVersion(dbc, ent.Type, ent.ID)
	if err != nil {
		return nil, err
	}
	issued, err := a.deps.Versions.HighWater(dbc, ent.Type, ent.ID)
	if err != nil {
		return nil, err
	}
	if expectedLatest != nil {
		if err := RequireVersionMatch(latest, *expectedLatest); err != nil {
			return nil, err
		}
	}
	fields, err := versioning.Project(ent.Type, ent.Fields)
	if err != nil {
		return nil, InvariantError(err.Error())
	}
	row := &versioning.ContentVersion{
		EntityType:        ent.Type,
		EntityID:          ent.ID,
		Version:           max(latest, issued) + 1,
		Fields:            datatypes.JSONMap(fields),
		AuthorID:          authorID,
		ChangeDescription: normalizeDescription(description),
	}
	if err := a.deps.Versions.Create(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (a *contentVersionAggregate) versionRetry() retrySpec {
	return retrySpec{
		Policy: a.deps.Retry,
		ShouldRetry: func(err error) bool {
			return IsUniqueViolation(err) || IsTransient(err)
		},
		Exhausted: func(attempts int, last error) error {
			if !IsUniqueViolation(last) {
				return last
			}
			return fmt.Errorf("%w after %d attempts: %w", versioning.ErrConcurrentVersionConflict, attempts, last)
		},
	}
}

func (a *contentVersionAggregate) requireRepos(op string) error {
	if a.deps.Entities == nil || a.deps.Versions == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "content version aggregate repos not configured", nil)
	}
	return nil
}

func normalizeDescription(in *string) *string {
	if in == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*in)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
