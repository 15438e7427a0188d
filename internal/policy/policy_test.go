package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/planora/backend/internal/domain"
	"github.com/planora/backend/internal/policy"
)

// TestDecide covers the full ownership matrix. The rule is strict
// equality: no requester is ever granted access to a record with a
// different owner, and a public record is not implicitly readable by
// authenticated users.
func TestDecide(t *testing.T) {
	userA := domain.AuthenticatedUser(uuid.New())
	userB := domain.AuthenticatedUser(uuid.New())
	anon := domain.Anonymous()

	cases := []struct {
		name      string
		owner     domain.Identity
		requester domain.Identity
		want      policy.Decision
	}{
		{"owner reads own record", userA, userA, policy.Allow},
		{"other user denied", userA, userB, policy.Deny},
		{"anonymous denied on owned record", userA, anon, policy.Deny},
		{"anonymous reads public record", anon, anon, policy.Allow},
		{"authenticated denied on public record", anon, userA, policy.Deny},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := domain.TripRecord{ID: uuid.New(), Owner: tc.owner}
			assert.Equal(t, tc.want, policy.Decide(rec, tc.requester))
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", policy.Allow.String())
	assert.Equal(t, "deny", policy.Deny.String())
}
