package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer token. Failures answer 401 with a
// {"msg": ...} body, the shape web clients of the platform already parse.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "Missing Authorization Header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			switch {
			case errors.Is(err, jwtx.ErrExpired):
				writeBearerError(w, "Token has expired")
				return
			case err != nil:
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(r.Context(), claims)))
		})
	}
}

// writeBearerError sends an RFC 6750 challenge alongside the JSON body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"msg": desc})
}
