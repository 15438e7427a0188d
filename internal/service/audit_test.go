package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/internal/domain"
	"github.com/planora/backend/internal/service"
)

func TestAuditService_Query(t *testing.T) {
	audit := &mockAuditRepo{}
	svc := service.NewAuditService(audit)

	entries, err := svc.Query(context.Background(), domain.AuditFilter{}, 20, 0)

	require.NoError(t, err)
	assert.NotNil(t, entries, "empty result is [], not null")
	assert.Empty(t, entries)
}

func TestAuditService_Query_InvalidLimit(t *testing.T) {
	svc := service.NewAuditService(&mockAuditRepo{})

	for _, limit := range []int{0, -1, domain.MaxListLimit + 1} {
		_, err := svc.Query(context.Background(), domain.AuditFilter{}, limit, 0)
		assert.ErrorIs(t, err, domain.ErrValidation, "limit %d", limit)
	}
}

func TestAuditService_Query_NegativeOffset(t *testing.T) {
	svc := service.NewAuditService(&mockAuditRepo{})

	_, err := svc.Query(context.Background(), domain.AuditFilter{}, 20, -1)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuditService_Query_UnknownAction(t *testing.T) {
	svc := service.NewAuditService(&mockAuditRepo{})

	bogus := domain.AuditAction("truncate")
	_, err := svc.Query(context.Background(), domain.AuditFilter{Action: &bogus}, 20, 0)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
