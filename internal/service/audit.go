package service

import (
	"context"
	"fmt"

	"github.com/planora/backend/internal/domain"
	"github.com/planora/backend/internal/repo"
)

// AuditService exposes read access to the audit trail for admin and
// operational tooling. It has no public HTTP route.
type AuditService struct {
	audit repo.AuditRepo
}

// NewAuditService constructs an AuditService backed by the provided repo.
func NewAuditService(audit repo.AuditRepo) *AuditService {
	return &AuditService{audit: audit}
}

// Query returns audit entries matching the filter, newest first.
// Limit is bounded the same way as trip listings; a nil-field filter
// matches everything.
func (s *AuditService) Query(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditEntry, error) {
	if limit < 1 || limit > domain.MaxListLimit {
		return nil, fmt.Errorf("service.AuditService.Query: %w: limit must be between 1 and %d", domain.ErrValidation, domain.MaxListLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("service.AuditService.Query: %w: offset must not be negative", domain.ErrValidation)
	}
	if filter.Action != nil && !filter.Action.Valid() {
		return nil, fmt.Errorf("service.AuditService.Query: %w: unknown action %q", domain.ErrValidation, *filter.Action)
	}

	entries, err := s.audit.Query(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service.AuditService.Query: %w", err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}
