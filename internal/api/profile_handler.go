package api

import (
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/auth"
	"github.com/blagoySimandov/astra/go/internal/models"
	"github.com/blagoySimandov/astra/go/internal/user"
)

const (
	msgUserCreated  = "User document created."
	msgProfileSaved = "Profile saved."
	msgInvalidData  = "Invalid data."
	msgUnauthorized = "Unauthorized."
)

type ProfileHandler struct {
	users user.Service
}

func NewProfileHandler(users user.Service) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.users.CreateUserRecord(r.Context(), principal); err != nil {
		writeError(w, r, err, "create_user")
		return
	}
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: msgUserCreated})
}

func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req models.SaveProfileRequest
	if err := decodeJSON(r, &req, msgInvalidData); err != nil {
		writeError(w, r, err, "decode")
		return
	}

	if err := h.users.SaveProfile(r.Context(), principal, req.BrandProfile); err != nil {
		writeError(w, r, err, "save_profile")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: msgProfileSaved})
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(r.Context(), principal)
	if err != nil {
		writeError(w, r, err, "get_profile")
		return
	}
	writeJSON(w, http.StatusOK, profile.ToResponse())
}

// requirePrincipal guards handlers mounted without the auth middleware.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := auth.GetPrincipalFromRequest(r)
	if !ok {
		writeError(w, r, apperr.New(apperr.Unauthenticated, msgUnauthorized), "auth")
		return nil, false
	}
	return principal, true
}
