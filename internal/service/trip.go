// Package service contains the business logic for the Planora trip API.
// Services validate inputs, apply the ownership policy, orchestrate repo
// calls, and write the audit trail. No SQL lives here — services depend
// on repo interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/backend/internal/domain"
	"github.com/planora/backend/internal/metrics"
	"github.com/planora/backend/internal/policy"
	"github.com/planora/backend/internal/repo"
)

// PlanGenerator produces an itinerary for a set of search criteria.
// It is an external collaborator (an AI planning service); this core only
// stores what it returns, verbatim.
type PlanGenerator interface {
	Generate(ctx context.Context, criteria json.RawMessage) (json.RawMessage, error)
}

// ImageEnricher looks up a display image for a location. It is consulted
// only for display, never for authorization, and its failures never fail
// a request.
type ImageEnricher interface {
	ImageURL(ctx context.Context, location string) (string, error)
}

// defaultStoreTimeout bounds every store-touching operation. Requests
// that exceed it fail closed with domain.ErrStoreUnavailable from the
// repo layer.
const defaultStoreTimeout = 5 * time.Second

// TripService orchestrates trip record operations: validate, resolve the
// store call, apply the access policy, append the audit entry, shape the
// result. It is the only component aware of caller identity; the repos
// beneath it are identity-agnostic.
type TripService struct {
	trips   repo.TripRepo
	audit   repo.AuditRepo
	planner PlanGenerator
	images  ImageEnricher
	log     *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewTripService constructs a TripService. planner and images may be nil:
// creation then stores criteria without an itinerary, and records are
// returned without display images. log may be nil to use slog.Default.
func NewTripService(trips repo.TripRepo, audit repo.AuditRepo, planner PlanGenerator, images ImageEnricher, log *slog.Logger, m *metrics.Metrics) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{
		trips:   trips,
		audit:   audit,
		planner: planner,
		images:  images,
		log:     log,
		metrics: m,
		timeout: defaultStoreTimeout,
	}
}

// List returns one page of the requester's records plus pagination info.
// Scoping happens by construction: the store query is parameterized by
// the requester's identity, so non-owned records never enter the result
// set and no post-filtering is needed.
func (s *TripService) List(ctx context.Context, requester domain.Identity, params domain.ListParams) ([]domain.TripRecord, domain.Page, error) {
	params.Requester = requester

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	records, total, err := s.trips.List(ctx, params)
	if err != nil {
		return nil, domain.Page{}, s.storeFail(fmt.Errorf("service.TripService.List: %w", err))
	}
	if records == nil {
		records = []domain.TripRecord{}
	}

	for i := range records {
		records[i] = s.enrich(ctx, records[i])
	}

	page := domain.Page{Total: total, Limit: params.Limit, Offset: params.Offset}
	return records, page, nil
}

// GetByID returns a single record. The ownership check is an explicit
// post-fetch policy decision so "doesn't exist" (ErrNotFound) and
// "exists but not yours" (ErrForbidden) stay distinguishable.
func (s *TripService) GetByID(ctx context.Context, requester domain.Identity, id uuid.UUID) (domain.TripRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rec, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.TripRecord{}, s.storeFail(fmt.Errorf("service.TripService.GetByID: %w", err))
	}

	if policy.Decide(rec, requester) != policy.Allow {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.GetByID: %w: trip belongs to a different owner", domain.ErrForbidden)
	}

	return s.enrich(ctx, rec), nil
}

// Create validates and persists a new trip record owned by the requester
// (or public, for an anonymous requester), then appends a create audit
// entry. The itinerary is supplied by the caller or, when absent,
// requested from the plan generator; generator and enrichment failures
// never fail the create.
func (s *TripService) Create(ctx context.Context, requester domain.Identity, input domain.CreateTripInput, prov domain.Provenance) (domain.TripRecord, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Create: %w: title is required", domain.ErrValidation)
	}

	itinerary := input.Itinerary
	if itinerary == nil && s.planner != nil {
		generated, err := s.planner.Generate(ctx, input.Criteria)
		if err != nil {
			s.log.WarnContext(ctx, "plan generation failed, storing criteria only", "error", err)
		} else {
			itinerary = generated
		}
	}

	plan, err := domain.NewPlanDocument(domain.PlanData{
		Query:     input.Query,
		Criteria:  input.Criteria,
		Itinerary: itinerary,
	})
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Create: %w: malformed plan payload", domain.ErrValidation)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.trips.Create(ctx, domain.TripRecord{
		Owner:    requester,
		Title:    strings.TrimSpace(input.Title),
		Location: strings.TrimSpace(input.Location),
		Plan:     plan,
	})
	if err != nil {
		return domain.TripRecord{}, s.storeFail(fmt.Errorf("service.TripService.Create: %w", err))
	}

	s.appendAudit(ctx, domain.AuditActionCreate, created.ID, nil, snapshot(created), requester, prov)

	return s.enrich(ctx, created), nil
}

// Delete soft-deletes a record owned by the requester and appends a
// soft_delete audit entry with before/after snapshots.
//
// The policy check runs on a snapshot of ownership; correctness under
// concurrent deletes comes from the store's atomic live→deleted
// transition (exactly one of two racing deletes succeeds), not from any
// lock, and relies on owners being immutable after creation.
func (s *TripService) Delete(ctx context.Context, requester domain.Identity, id uuid.UUID, prov domain.Provenance) (domain.DeleteConfirmation, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	current, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.DeleteConfirmation{}, s.storeFail(fmt.Errorf("service.TripService.Delete: %w", err))
	}

	if policy.Decide(current, requester) != policy.Allow {
		return domain.DeleteConfirmation{}, fmt.Errorf("service.TripService.Delete: %w: trip belongs to a different owner", domain.ErrForbidden)
	}

	deleted, err := s.trips.SoftDelete(ctx, id)
	if err != nil {
		// A concurrent delete can win between the ownership check and
		// this call; the loser correctly observes not-found.
		return domain.DeleteConfirmation{}, s.storeFail(fmt.Errorf("service.TripService.Delete: %w", err))
	}

	after, _ := json.Marshal(map[string]any{"deleted_at": deleted.DeletedAt})
	summary := s.appendAudit(ctx, domain.AuditActionSoftDelete, id, snapshot(current), after, requester, prov)

	return domain.DeleteConfirmation{
		Record:         deleted,
		RecoveryNotice: domain.RecoveryNotice,
		Audit:          summary,
	}, nil
}

// HardDelete physically removes a record and audits the removal. It is an
// administrative capability: no ownership policy applies and no public
// route reaches it.
func (s *TripService) HardDelete(ctx context.Context, actor domain.Identity, id uuid.UUID, prov domain.Provenance) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	removed, err := s.trips.HardDelete(ctx, id)
	if err != nil {
		return false, s.storeFail(fmt.Errorf("service.TripService.HardDelete: %w", err))
	}
	if removed {
		s.appendAudit(ctx, domain.AuditActionHardDelete, id, nil, nil, actor, prov)
	}
	return removed, nil
}

// appendAudit writes one audit entry for a committed mutation. Appends
// are best-effort: a failure is logged and counted but never propagated,
// so the mutation's outcome stands. The append runs on an uncancelable
// child context — once the mutation committed, the audit write must at
// least be attempted even if the request context has expired.
func (s *TripService) appendAudit(ctx context.Context, action domain.AuditAction, entityID uuid.UUID, before, after json.RawMessage, actor domain.Identity, prov domain.Provenance) domain.AuditSummary {
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	stored, err := s.audit.Append(auditCtx, domain.AuditEntry{
		EntityType:  domain.EntityTypeTrip,
		EntityID:    entityID,
		Action:      action,
		Actor:       actor,
		Before:      before,
		After:       after,
		SourceIP:    prov.SourceIP,
		SourceAgent: prov.SourceAgent,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "audit append failed",
			"action", string(action),
			"entity_id", entityID.String(),
			"actor", actor.String(),
			"error", err,
		)
		s.metrics.IncAuditAppendFailures()
		return domain.AuditSummary{Action: action, Recorded: false}
	}

	return domain.AuditSummary{Action: action, Recorded: true, Timestamp: stored.Timestamp}
}

// enrich attaches a display image to the record. Lookup failures are
// logged and swallowed; the record is returned unchanged.
func (s *TripService) enrich(ctx context.Context, rec domain.TripRecord) domain.TripRecord {
	if s.images == nil || rec.Location == "" {
		return rec
	}
	url, err := s.images.ImageURL(ctx, rec.Location)
	if err != nil {
		s.log.WarnContext(ctx, "image enrichment failed", "location", rec.Location, "error", err)
		return rec
	}
	rec.ImageURL = url
	return rec
}

// opCtx bounds a store-touching operation with the service timeout.
func (s *TripService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// storeFail counts store outages for telemetry and passes err through.
func (s *TripService) storeFail(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		s.metrics.IncStoreUnavailable()
	}
	return err
}

// snapshot serializes a record for an audit before/after field.
func snapshot(rec domain.TripRecord) json.RawMessage {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	return raw
}
