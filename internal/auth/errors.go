package auth

import (
	"encoding/json"
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/blagoySimandov/astra/go/internal/logging"
)

type AuthError struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err *apperr.Error) {
	logging.EnrichError(r.Context(), err, "auth", err.Kind.String())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Kind.HTTPStatus())
	if encErr := json.NewEncoder(w).Encode(AuthError{Error: err.Message}); encErr != nil {
		logger.Log.Error("failed to write JSON error", "error", encErr)
	}
}
