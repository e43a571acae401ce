package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

const (
	googleSecureTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	firebaseIssuerPrefix     = "https://securetoken.google.com/"
	maxSubjectLength         = 128
	jwksRefreshInterval      = time.Hour
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("missing required claims")
)

// TokenVerifier turns a raw bearer credential into a Principal.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*Principal, error)
}

// FirebaseClaims are the claims carried by a Firebase ID token.
type FirebaseClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Firebase      struct {
		SignInProvider string `json:"sign_in_provider,omitempty"`
	} `json:"firebase"`
	jwt.RegisteredClaims
}

// JWTVerifier checks Firebase ID tokens against Google's published signing
// keys for one project.
type JWTVerifier struct {
	jwks    *keyfunc.JWKS
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
	mu      sync.RWMutex
}

func NewJWTVerifier(projectID string) (*JWTVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}

	jwks, err := keyfunc.Get(googleSecureTokenJWKSURL, keyfunc.Options{
		RefreshInterval:   jwksRefreshInterval,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Log.Error("failed to refresh JWKS", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	v := NewJWTVerifierWithKeyfunc(projectID, jwks.Keyfunc)
	v.jwks = jwks
	return v, nil
}

// NewJWTVerifierWithKeyfunc builds a verifier around an arbitrary key
// source.
func NewJWTVerifierWithKeyfunc(projectID string, kf jwt.Keyfunc) *JWTVerifier {
	return &JWTVerifier{
		keyfunc: kf,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithIssuer(firebaseIssuerPrefix+projectID),
			jwt.WithAudience(projectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

func (v *JWTVerifier) VerifyToken(_ context.Context, tokenString string) (*Principal, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	claims := &FirebaseClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || len(claims.Subject) > maxSubjectLength {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrMissingClaims)
	}

	return &Principal{
		UID:    claims.Subject,
		Email:  claims.Email,
		Claims: claims,
	}, nil
}

func (v *JWTVerifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
