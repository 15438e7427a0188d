package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/internal/domain"
)

func TestIdentity_Equal(t *testing.T) {
	a := domain.AuthenticatedUser(uuid.New())
	b := domain.AuthenticatedUser(uuid.New())

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))

	// Anonymous equals only anonymous.
	assert.True(t, domain.Anonymous().Equal(domain.Anonymous()))
	assert.False(t, a.Equal(domain.Anonymous()))
	assert.False(t, domain.Anonymous().Equal(a))
}

func TestIdentity_ZeroValueIsAnonymous(t *testing.T) {
	var id domain.Identity

	assert.True(t, id.IsAnonymous())
	assert.True(t, id.Equal(domain.Anonymous()))
}

func TestIdentity_UserID(t *testing.T) {
	userID := uuid.New()

	got, ok := domain.AuthenticatedUser(userID).UserID()
	require.True(t, ok)
	assert.Equal(t, userID, got)

	_, ok = domain.Anonymous().UserID()
	assert.False(t, ok)
}

func TestIdentity_MarshalJSON(t *testing.T) {
	userID := uuid.New()

	raw, err := json.Marshal(domain.AuthenticatedUser(userID))
	require.NoError(t, err)
	assert.Equal(t, `"`+userID.String()+`"`, string(raw))

	raw, err = json.Marshal(domain.Anonymous())
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestIdentity_String(t *testing.T) {
	userID := uuid.New()

	assert.Equal(t, userID.String(), domain.AuthenticatedUser(userID).String())
	assert.Equal(t, "anonymous", domain.Anonymous().String())
}
