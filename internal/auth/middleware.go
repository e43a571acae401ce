package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/logging"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	unauthorizedMessage = "Unauthorized."
	invalidTokenMessage = "Forbidden. Invalid token."
	unavailableMessage  = "Authentication service unavailable."
)

var errVerifierUnconfigured = errors.New("token verifier is not configured")

// Middleware rejects requests without a verified bearer token. A missing or
// malformed header is 401 and is decided before the verifier is consulted;
// a token the verifier refuses is 403. A nil verifier answers 503.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, r, apperr.New(apperr.Unauthenticated, unauthorizedMessage))
				return
			}

			if verifier == nil {
				writeJSONError(w, r, apperr.Wrap(apperr.ServiceUnavailable, unavailableMessage, errVerifierUnconfigured))
				return
			}

			principal, err := verifier.VerifyToken(r.Context(), tokenString)
			if err != nil {
				writeJSONError(w, r, apperr.Wrap(apperr.Forbidden, invalidTokenMessage, err))
				return
			}

			logging.EnrichUser(r.Context(), principal.UID, principal.Email)

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get(authorizationHeader)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	return token, token != ""
}
