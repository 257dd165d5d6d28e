// Package identity resolves the calling principal from bearer tokens minted
// by the external wallet layer. The token's subject claim carries the wallet
// address; the service trusts it as ground truth once the signature checks.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbakare/eventchain/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Verifier validates HS256 bearer tokens and extracts the principal.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Principal returns the principal named by raw's subject claim. Tokens with
// an unexpected signing method, a bad signature, an expired claim set, or an
// empty subject are rejected.
func (v *Verifier) Principal(raw string) (domain.Principal, error) {
	if raw == "" {
		return "", ErrMissingToken
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return domain.Principal(sub), nil
}

// Issue mints a signed token for principal, valid for ttl. Used by tests and
// local tooling; production tokens come from the wallet layer.
func Issue(secret string, principal domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": string(principal),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
