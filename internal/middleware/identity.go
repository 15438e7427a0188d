package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planora/backend/internal/identity"
)

// NewIdentityResolver returns a middleware that resolves the optional
// Authorization header into the request identity. An absent credential
// resolves to anonymous — never an error for read paths. A present but
// invalid credential is rejected with 401: it is not downgraded to
// anonymous, which would silently change what the caller can see.
func NewIdentityResolver(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, identity.ErrInvalidCredentials) {
					writeUnauthorized(w)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// writeUnauthorized mirrors the handler package's error shape without
// importing it.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": "invalid credentials"},
	})
}
