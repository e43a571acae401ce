package api

import (
	"context"
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/auth"
	"github.com/blagoySimandov/astra/go/internal/logging"
	"github.com/blagoySimandov/astra/go/internal/models"
	"github.com/blagoySimandov/astra/go/internal/services"
	"github.com/blagoySimandov/astra/go/internal/user"
)

const msgInvalidRequest = "Invalid request body."

type GenerationHandler struct {
	relay services.Generator
	users user.Service
}

func NewGenerationHandler(relay services.Generator, users user.Service) *GenerationHandler {
	return &GenerationHandler{relay: relay, users: users}
}

func (h *GenerationHandler) GenerateCampaign(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	logging.EnrichMetadata(r.Context(), "generation_kind", services.KindCampaign)

	var req models.GenerateCampaignRequest
	if err := decodeJSON(r, &req, msgInvalidRequest); err != nil {
		writeError(w, r, err, "decode")
		return
	}

	brand, err := h.resolveBrand(r.Context(), principal, req.BrandProfile)
	if err != nil {
		writeError(w, r, err, "brand_profile")
		return
	}

	campaign, err := h.relay.GenerateCampaign(r.Context(), brand, req.UserGoal)
	if err != nil {
		writeError(w, r, err, "generate_campaign")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *GenerationHandler) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	logging.EnrichMetadata(r.Context(), "generation_kind", services.KindResponse)

	var req models.GenerateResponseRequest
	if err := decodeJSON(r, &req, msgInvalidRequest); err != nil {
		writeError(w, r, err, "decode")
		return
	}

	brand, err := h.resolveBrand(r.Context(), principal, req.BrandProfile)
	if err != nil {
		writeError(w, r, err, "brand_profile")
		return
	}

	text, err := h.relay.GenerateResponse(r.Context(), brand, req.Prompt)
	if err != nil {
		writeError(w, r, err, "generate_response")
		return
	}
	writeJSON(w, http.StatusOK, models.GenerateResponseResponse{Response: text})
}

// resolveBrand prefers the profile sent with the request and falls back to
// the caller's stored one. A nil result is left for the relay to reject.
func (h *GenerationHandler) resolveBrand(ctx context.Context, principal *auth.Principal, fromBody *models.BrandProfile) (*models.BrandProfile, error) {
	if fromBody != nil {
		if err := fromBody.Validate(); err != nil {
			return nil, apperr.Wrap(apperr.BadRequest, "Invalid brandProfile: "+err.Error(), err)
		}
		logging.EnrichMetadata(ctx, "brand_source", "request")
		return fromBody, nil
	}

	if !h.users.Configured() {
		return nil, nil
	}
	stored, err := h.users.GetProfile(ctx, principal)
	if err != nil {
		// a lookup failure only means there is no fallback profile
		logging.EnrichMetadata(ctx, "brand_lookup_error", err.Error())
		return nil, nil
	}
	logging.EnrichMetadata(ctx, "brand_source", "store")
	return stored.BrandProfile, nil
}
