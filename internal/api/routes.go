package api

import (
	"net/http"

	"github.com/blagoySimandov/astra/go/internal/auth"
	"github.com/blagoySimandov/astra/go/internal/services"
	"github.com/blagoySimandov/astra/go/internal/user"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators built in main. Nil interface values
// mean the feature is unconfigured and its routes answer 503.
type Dependencies struct {
	Verifier       auth.TokenVerifier
	Users          user.Service
	Relay          services.Generator
	LogoSigner     LogoSigner
	AllowedOrigins []string
	StoreDriver    string
}

func SetupRoutes(deps Dependencies) *mux.Router {
	if deps.Users == nil {
		deps.Users = user.NewUserService(nil)
	}
	if deps.Relay == nil {
		deps.Relay = services.NewGenerationRelay(nil)
	}

	r := mux.NewRouter()

	r.Use(CORSMiddleware(deps.AllowedOrigins).Handler)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(BodyLimitMiddleware)

	health := NewHealthHandler(deps.StoreDriver, deps.Users.Configured(), deps.Relay.Configured())
	r.HandleFunc("/healthz", health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	profiles := NewProfileHandler(deps.Users)
	generation := NewGenerationHandler(deps.Relay, deps.Users)
	assets := NewAssetHandler(deps.LogoSigner)

	// OPTIONS is routed so preflight requests reach the CORS middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(deps.Verifier))

	api.HandleFunc("/create-user", profiles.CreateUser).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/save-profile", profiles.SaveProfile).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/get-profile", profiles.GetProfile).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/generate-campaign", generation.GenerateCampaign).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/generate-response", generation.GenerateResponse).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/logo-upload-url", assets.LogoUploadURL).Methods(http.MethodPost, http.MethodOptions)

	return r
}
