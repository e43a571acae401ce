package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/blagoySimandov/astra/go/internal/logging"
)

const msgBodyTooLarge = "Request body too large."

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to write JSON response", "error", err)
	}
}

// writeError maps err to its status and fixed message. The underlying cause
// only goes to the wide event. NotFound keeps the {"message"} shape clients
// already depend on.
func writeError(w http.ResponseWriter, r *http.Request, err error, stage string) {
	kind := apperr.KindOf(err)
	logging.EnrichError(r.Context(), err, stage, kind.String())

	msg := apperr.MessageOf(err)
	if kind == apperr.NotFound {
		writeJSON(w, kind.HTTPStatus(), map[string]string{"message": msg})
		return
	}
	writeJSON(w, kind.HTTPStatus(), ErrorResponse{Error: msg})
}

// decodeJSON reads one JSON document from the body. An empty body decodes
// into the zero value.
func decodeJSON(r *http.Request, v any, invalidMsg string) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Wrap(apperr.BadRequest, msgBodyTooLarge, err)
	}
	return apperr.Wrap(apperr.BadRequest, invalidMsg, err)
}
