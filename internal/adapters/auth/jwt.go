package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"hotel_backoffice/internal/domain"
)

// Claims is the bearer token payload. Subject carries the user id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct{ secret []byte }

func NewVerifier(secret string) *Verifier { return &Verifier{secret: []byte(secret)} }

// Verify checks an HS256 token and returns the caller it names. Any failure
// maps to domain.ErrUnauthorized.
func (v *Verifier) Verify(token string) (domain.Identity, error) {
	if len(v.secret) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: no signing secret configured", domain.ErrUnauthorized)
	}
	var c Claims
	p := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := p.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return v.secret, nil }); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !c.Role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, c.Role)
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return domain.Identity{UserID: id, Role: c.Role}, nil
}

// Issue signs a token for who. Used by the token CLI and tests.
func Issue(secret string, who domain.Identity, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	c := Claims{
		Role: who.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(who.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, who)
}

func FromContext(ctx context.Context) (domain.Identity, bool) {
	who, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return who, ok
}
