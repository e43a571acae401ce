package api

import (
	"errors"
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/gcs"
)

const (
	msgUploadsUnavailable = "Upload service unavailable."
	msgUnsupportedType    = "Unsupported content type."
	msgSignFailed         = "Failed to create upload URL."
	msgInvalidOwner       = "Invalid user id."
)

var errUploaderUnconfigured = errors.New("logo bucket is not configured")

type LogoSigner interface {
	SignUpload(userID, contentType string) (*gcs.LogoUpload, error)
}

type LogoUploadRequest struct {
	ContentType string `json:"contentType"`
}

type AssetHandler struct {
	signer LogoSigner
}

func NewAssetHandler(signer LogoSigner) *AssetHandler {
	return &AssetHandler{signer: signer}
}

func (h *AssetHandler) LogoUploadURL(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req LogoUploadRequest
	if err := decodeJSON(r, &req, msgInvalidRequest); err != nil {
		writeError(w, r, err, "decode")
		return
	}

	if h.signer == nil {
		writeError(w, r, apperr.Wrap(apperr.ServiceUnavailable, msgUploadsUnavailable, errUploaderUnconfigured), "logo_upload")
		return
	}

	upload, err := h.signer.SignUpload(principal.UID, req.ContentType)
	if errors.Is(err, gcs.ErrContentTypeNotAllowed) {
		writeError(w, r, apperr.Wrap(apperr.BadRequest, msgUnsupportedType, err), "logo_upload")
		return
	}
	if errors.Is(err, gcs.ErrInvalidOwner) {
		writeError(w, r, apperr.Wrap(apperr.BadRequest, msgInvalidOwner, err), "logo_upload")
		return
	}
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.InternalFailure, msgSignFailed, err), "logo_upload")
		return
	}
	writeJSON(w, http.StatusOK, upload)
}
