package identity

import (
	"context"

	"github.com/planora/backend/internal/domain"
)

type contextKey struct{}

// WithIdentity returns a context carrying the resolved request identity.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity resolved for this request.
// A context without one means the identity middleware did not run;
// treat that as anonymous rather than failing read paths.
func FromContext(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(contextKey{}).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous()
}
