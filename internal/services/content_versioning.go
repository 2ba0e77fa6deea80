package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos"
	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services")

// VersionEventPublisher receives an event after each committed history change.
type VersionEventPublisher interface {
	Publish(ctx context.Context, ev versioning.Event) error
}

type CreateVersionRequest struct {
	EntityType            types.EntityType
	EntityID              uuid.UUID
	AuthorID              uuid.UUID
	ChangeDescription     *string
	ExpectedLatestVersion *int
}

// ContentVersionService is the public face of the versioning engine. Every
// error it returns carries a domain aggregate code (see domainagg.CodeOf).
type ContentVersionService interface {
	CreateVersion(ctx context.Context, req CreateVersionRequest) (*types.ContentVersion, error)
	GetHistory(ctx context.Context, entityType types.EntityType, entityID uuid.UUID) ([]*types.ContentVersion, error)
	GetVersion(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error)
	Rollback(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version int, userID uuid.UUID) (*versioning.Entity, error)
	Compare(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version1, version2 int) ([]types.FieldDiff, error)
	// Cleanup prunes to keepLastN, or to the configured retention window when keepLastN is nil.
	Cleanup(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, keepLastN *int) (domainagg.CleanupResult, error)
}

type contentVersionService struct {
	log      *logger.Logger
	agg      domainagg.ContentVersionAggregate
	versions repos.ContentVersionRepo
	policy   versioning.RetentionPolicy
	metrics  *observability.Metrics
	events   VersionEventPublisher
}

func NewContentVersionService(
	baseLog *logger.Logger,
	agg domainagg.ContentVersionAggregate,
	versions repos.ContentVersionRepo,
	policy versioning.RetentionPolicy,
	metrics *observability.Metrics,
	events VersionEventPublisher,
) ContentVersionService {
	return &contentVersionService{
		log:      baseLog.With("service", "ContentVersionService"),
		agg:      agg,
		versions: versions,
		policy:   policy,
		metrics:  metrics,
		events:   events,
	}
}

func (s *contentVersionService) CreateVersion(ctx context.Context, req CreateVersionRequest) (*types.ContentVersion, error) {
	ctx, span := startSpan(ctx, "ContentVersion.Create", req.EntityType, req.EntityID)
	defer span.End()

	row, err := s.agg.CreateVersion(ctx, domainagg.CreateVersionInput{
		EntityType:            req.EntityType,
		EntityID:              req.EntityID,
		AuthorID:              req.AuthorID,
		ChangeDescription:     req.ChangeDescription,
		ExpectedLatestVersion: req.ExpectedLatestVersion,
	})
	if err != nil {
		return nil, endSpanErr(span, err)
	}
	span.SetAttributes(attribute.Int("content.version", row.Version))
	s.metrics.IncSnapshotCreated(string(row.EntityType))
	s.publish(ctx, versioning.Event{
		Kind:       versioning.EventVersionCreated,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Version:    row.Version,
		ActorID:    row.AuthorID,
		At:         row.CreatedAt,
	})
	return row, nil
}

func (s *contentVersionService) GetHistory(ctx context.Context, entityType types.EntityType, entityID uuid.UUID) ([]*types.ContentVersion, error) {
	const op = "Content.Version.History"
	ctx, span := startSpan(ctx, "ContentVersion.History", entityType, entityID)
	defer span.End()

	if err := aggregates.RequireEntityTarget(entityType, entityID); err != nil {
		return nil, endSpanErr(span, aggregates.MapError(op, err))
	}
	rows, err := s.versions.ListByEntity(dbctx.Context{Ctx: ctx}, entityType, entityID)
	if err != nil {
		return nil, endSpanErr(span, aggregates.MapError(op, err))
	}
	span.SetAttributes(attribute.Int("content.history_len", len(rows)))
	return rows, nil
}

func (s *contentVersionService) GetVersion(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error) {
	const op = "Content.Version.Get"
	ctx, span := startSpan(ctx, "ContentVersion.Get", entityType, entityID)
	defer span.End()

	row, err := s.loadVersion(ctx, op, entityType, entityID, version)
	if err != nil {
		return nil, endSpanErr(span, err)
	}
	return row, nil
}

func (s *contentVersionService) Rollback(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version int, userID uuid.UUID) (*versioning.Entity, error) {
	ctx, span := startSpan(ctx, "ContentVersion.Rollback", entityType, entityID)
	defer span.End()
	span.SetAttributes(attribute.Int("content.target_version", version))

	res, err := s.agg.Rollback(ctx, domainagg.RollbackInput{
		EntityType:    entityType,
		EntityID:      entityID,
		TargetVersion: version,
		UserID:        userID,
	})
	if err != nil {
		s.metrics.ObserveRollback(string(entityType), string(domainagg.CodeOf(err)))
		return nil, endSpanErr(span, err)
	}
	s.metrics.ObserveRollback(string(entityType), "success")
	s.metrics.IncSnapshotCreated(string(entityType))

	ev := versioning.Event{
		Kind:          versioning.EventRolledBack,
		EntityType:    entityType,
		EntityID:      entityID,
		TargetVersion: version,
		ActorID:       userID,
		At:            time.Now().UTC(),
	}
	if res.Preserved != nil {
		ev.Version = res.Preserved.Version
		ev.At = res.Preserved.CreatedAt
	}
	s.publish(ctx, ev)
	s.log.Info("content rolled back",
		"entity_type", entityType,
		"entity_id", entityID,
		"target_version", version,
		"preserved_version", ev.Version,
		"user_id", userID,
	)
	return res.Entity, nil
}

func (s *contentVersionService) Compare(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, version1, version2 int) ([]types.FieldDiff, error) {
	const op = "Content.Version.Compare"
	ctx, span := startSpan(ctx, "ContentVersion.Compare", entityType, entityID)
	defer span.End()
	span.SetAttributes(attribute.Int("content.version1", version1), attribute.Int("content.version2", version2))

	var older, newer *types.ContentVersion
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		row, err := s.loadVersion(gctx, op, entityType, entityID, version1)
		older = row
		return err
	})
	g.Go(func() error {
		row, err := s.loadVersion(gctx, op, entityType, entityID, version2)
		newer = row
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, endSpanErr(span, err)
	}

	diffs, err := versioning.Diff(entityType, older.Fields, newer.Fields)
	if err != nil {
		return nil, endSpanErr(span, aggregates.MapError(op, err))
	}
	span.SetAttributes(attribute.Int("content.diff_len", len(diffs)))
	return diffs, nil
}

func (s *contentVersionService) Cleanup(ctx context.Context, entityType types.EntityType, entityID uuid.UUID, keepLastN *int) (domainagg.CleanupResult, error) {
	ctx, span := startSpan(ctx, "ContentVersion.Cleanup", entityType, entityID)
	defer span.End()

	keep := s.policy.KeepFor(entityType)
	if keepLastN != nil {
		keep = *keepLastN
	}
	span.SetAttributes(attribute.Int("content.keep_last_n", keep))

	res, err := s.agg.Cleanup(ctx, domainagg.CleanupInput{
		EntityType: entityType,
		EntityID:   entityID,
		KeepLastN:  keep,
	})
	if err != nil {
		return res, endSpanErr(span, err)
	}
	s.metrics.AddSnapshotsPruned(string(entityType), res.DeletedCount)
	if res.DeletedCount > 0 {
		s.publish(ctx, versioning.Event{
			Kind:         versioning.EventPruned,
			EntityType:   entityType,
			EntityID:     entityID,
			DeletedCount: res.DeletedCount,
			At:           time.Now().UTC(),
		})
	}
	return res, nil
}

func (s *contentVersionService) loadVersion(ctx context.Context, op string, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error) {
	if err := aggregates.RequireEntityTarget(entityType, entityID); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if version < 1 {
		return nil, aggregates.MapError(op, fmt.Errorf("%w: %s %s v%d", versioning.ErrVersionNotFound, entityType, entityID, version))
	}
	row, err := s.versions.GetByVersion(dbctx.Context{Ctx: ctx}, entityType, entityID, version)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if row == nil {
		return nil, aggregates.MapError(op, fmt.Errorf("%w: %s %s v%d", versioning.ErrVersionNotFound, entityType, entityID, version))
	}
	return row, nil
}

func (s *contentVersionService) publish(ctx context.Context, ev versioning.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("version event publish failed", "kind", ev.Kind, "entity_id", ev.EntityID, "error", err)
	}
}

func startSpan(ctx context.Context, name string, entityType types.EntityType, entityID uuid.UUID) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("content.entity_type", string(entityType)),
		attribute.String("content.entity_id", entityID.String()),
	))
}

func endSpanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
	return err
}
