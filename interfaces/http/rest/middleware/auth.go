package middleware

import (
	"net/http"
	"strings"

	"sitegraph/pkg/auth"
	"sitegraph/pkg/common"
)

// Authenticate validates the bearer token and attaches the caller's user
// and tenant context to the request
func Authenticate(validator *auth.JWTValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			user, err := validator.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserContext(r.Context(), user)))
		})
	}
}
