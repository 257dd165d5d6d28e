package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/identity"
)

type principalKey struct{}

// Authenticate requires a valid bearer token and stores the resolved caller
// principal in the request context. Every mutating route runs behind it; the
// caller identity is never inferred from anything else.
func Authenticate(verifier *identity.Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token", 0)
			return
		}
		principal, err := verifier.Principal(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid bearer token", 0)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey{}).(domain.Principal)
	return p
}

// requireCaller resolves the authenticated principal or writes a 401. It only
// fires when a handler is mounted without Authenticate.
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	caller := principalFromContext(r.Context())
	if caller.IsZero() {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing caller identity", 0)
		return "", false
	}
	return caller, true
}
