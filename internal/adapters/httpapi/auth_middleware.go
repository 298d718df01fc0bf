package httpapi

import (
	"net/http"
	"strings"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// NewIdentityMiddleware reads the authenticated user id the gateway injects
// after verifying the caller's token. Requests without the header proceed as
// anonymous: public search and direct lookup accept unauthenticated callers,
// and handlers that need an identity reject its absence themselves.
//
// The API must only be reachable through the gateway; exposed directly, the
// header would be spoofable.
func NewIdentityMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := strings.TrimSpace(r.Header.Get("X-User-Id"))
			if uid != "" {
				r = r.WithContext(WithUser(r.Context(), domain.UserID(uid)))
			}
			next.ServeHTTP(w, r)
		})
	}
}
