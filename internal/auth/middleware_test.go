package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	principal *Principal
	err       error
	calls     int
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*Principal, error) {
	s.calls++
	return s.principal, s.err
}

func serve(t *testing.T, verifier TokenVerifier, header string) (*httptest.ResponseRecorder, *Principal, bool) {
	t.Helper()
	var got *Principal
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		got, _ = GetPrincipalFromRequest(r)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/get-profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Middleware(verifier)(next).ServeHTTP(rec, req)
	return rec, got, reached
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body AuthError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestMiddlewareMissingCredential(t *testing.T) {
	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer ", "bearer abc", "Token abc"} {
		t.Run(header, func(t *testing.T) {
			verifier := &stubVerifier{principal: &Principal{UID: "uid-1"}}

			rec, _, reached := serve(t, verifier, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized.", errorBody(t, rec))
			assert.False(t, reached)
			assert.Zero(t, verifier.calls)
		})
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("token is expired")}

	rec, _, reached := serve(t, verifier, "Bearer expired-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden. Invalid token.", errorBody(t, rec))
	assert.False(t, reached)
	assert.Equal(t, 1, verifier.calls)
}

func TestMiddlewareUnconfiguredVerifier(t *testing.T) {
	rec, _, reached := serve(t, nil, "Bearer some-token")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, reached)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	want := &Principal{UID: "uid-1", Email: "owner@acme.test"}
	verifier := &stubVerifier{principal: want}

	rec, got, reached := serve(t, verifier, "Bearer good-token")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, want, got)
}

func TestGetPrincipalFromContextEmpty(t *testing.T) {
	_, ok := GetPrincipalFromContext(context.Background())
	assert.False(t, ok)
}
