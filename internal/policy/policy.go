// Package policy holds the ownership access rule for trip records.
// It is a pure decision function with no I/O and no clock: the same rule
// gates reads and deletes, and listing applies it by construction through
// owner-scoped store queries.
package policy

import "github.com/planora/backend/internal/domain"

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// String renders the decision for log lines.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide gates access to a record by strict ownership equality.
//
// An authenticated requester is allowed only when the record's owner is
// that same user; ownership of a public record is never implied. An
// anonymous requester is allowed only on public (anonymously owned)
// records. There is no superset rule in either direction.
func Decide(record domain.TripRecord, requester domain.Identity) Decision {
	if record.Owner.Equal(requester) {
		return Allow
	}
	return Deny
}
