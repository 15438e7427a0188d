// Package identity resolves the optional bearer credential on a request
// into a domain.Identity. Signup, login, and token issuance live in an
// upstream identity service; this package only verifies and reads tokens.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/planora/backend/internal/domain"
)

// ErrInvalidCredentials is returned when a bearer token is present but
// cannot be verified. An absent token is not an error: it resolves to the
// anonymous identity.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are the JWT claims the upstream identity service signs into
// access tokens. UserID duplicates the subject for older tokens that set
// only one of the two.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Resolver verifies HS256 bearer tokens against a shared signing key.
type Resolver struct {
	signingKey []byte
	issuer     string
	audience   string
}

// NewResolver constructs a Resolver for the given signing key, issuer,
// and audience.
func NewResolver(signingKey, issuer, audience string) *Resolver {
	return &Resolver{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Resolve maps an Authorization header value to an identity.
// An empty header means anonymous. A malformed header, an unverifiable
// token, or a token without a usable user ID returns
// ErrInvalidCredentials — invalid credentials are rejected, never
// downgraded to anonymous.
func (r *Resolver) Resolve(authHeader string) (domain.Identity, error) {
	if authHeader == "" {
		return domain.Anonymous(), nil
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return domain.Identity{}, ErrInvalidCredentials
	}
	tokenString := strings.TrimSpace(authHeader[len(prefix):])
	if tokenString == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return r.signingKey, nil
	}, jwt.WithIssuer(r.issuer), jwt.WithAudience(r.audience))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}

	sub := claims.UserID
	if sub == "" {
		sub = claims.Subject
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}

	return domain.AuthenticatedUser(userID), nil
}

// Mint signs a token for the given user, valid for ttl. The production
// issuer is the upstream identity service; this exists for tests and
// local tooling that need a verifiable token.
func (r *Resolver) Mint(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    r.issuer,
			Audience:  []string{r.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(r.signingKey)
}
