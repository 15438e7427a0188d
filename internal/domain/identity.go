package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Identity names who is acting on, or who owns, a trip record.
// It is an explicit two-variant value: either an authenticated user or
// anonymous. Using a dedicated type instead of a nullable user ID keeps
// the access policy exhaustive — there is no third state to mishandle.
//
// The zero value is anonymous.
type Identity struct {
	userID        uuid.UUID
	authenticated bool
}

// AuthenticatedUser returns the identity of a known user.
func AuthenticatedUser(userID uuid.UUID) Identity {
	return Identity{userID: userID, authenticated: true}
}

// Anonymous returns the identity of an unauthenticated caller.
// Records owned by Anonymous are public records.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether this identity carries no user.
func (i Identity) IsAnonymous() bool {
	return !i.authenticated
}

// UserID returns the user ID and true for an authenticated identity,
// or the zero UUID and false for anonymous.
func (i Identity) UserID() (uuid.UUID, bool) {
	if !i.authenticated {
		return uuid.UUID{}, false
	}
	return i.userID, true
}

// Equal reports whether two identities refer to the same principal.
// Anonymous equals only anonymous; authenticated identities must match
// on user ID exactly.
func (i Identity) Equal(other Identity) bool {
	if i.authenticated != other.authenticated {
		return false
	}
	return !i.authenticated || i.userID == other.userID
}

// String renders the identity for log lines and audit actor fields.
func (i Identity) String() string {
	if !i.authenticated {
		return "anonymous"
	}
	return i.userID.String()
}

// MarshalJSON renders an authenticated identity as its user ID string and
// anonymous as JSON null, matching the wire shape of the owner field.
func (i Identity) MarshalJSON() ([]byte, error) {
	if !i.authenticated {
		return []byte("null"), nil
	}
	return json.Marshal(i.userID.String())
}
