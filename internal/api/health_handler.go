package api

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Relay  string `json:"relay"`
}

type HealthHandler struct {
	storeDriver string
	storeReady  bool
	relayReady  bool
}

func NewHealthHandler(storeDriver string, storeReady, relayReady bool) *HealthHandler {
	return &HealthHandler{storeDriver: storeDriver, storeReady: storeReady, relayReady: relayReady}
}

// Health always answers 200; unconfigured collaborators are reported, not
// treated as failures.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Store: "unconfigured", Relay: "unconfigured"}
	if h.storeReady {
		resp.Store = h.storeDriver
	}
	if h.relayReady {
		resp.Relay = "configured"
	}
	writeJSON(w, http.StatusOK, resp)
}
