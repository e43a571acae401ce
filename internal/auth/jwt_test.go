package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProjectID = "astra-test"

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newTestVerifier(key *rsa.PrivateKey) *JWTVerifier {
	return NewJWTVerifierWithKeyfunc(testProjectID, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
}

func signToken(t *testing.T, key *rsa.PrivateKey, mutate func(*FirebaseClaims)) string {
	t.Helper()
	now := time.Now()
	claims := &FirebaseClaims{
		Email:         "owner@acme.test",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    firebaseIssuerPrefix + testProjectID,
			Audience:  jwt.ClaimStrings{testProjectID},
			Subject:   "uid-123",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	claims.Firebase.SignInProvider = "password"
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifyTokenValid(t *testing.T) {
	key := newTestKey(t)
	v := newTestVerifier(key)

	p, err := v.VerifyToken(context.Background(), signToken(t, key, nil))
	require.NoError(t, err)

	assert.Equal(t, "uid-123", p.UID)
	assert.Equal(t, "owner@acme.test", p.Email)
	require.NotNil(t, p.Claims)
	assert.True(t, p.Claims.EmailVerified)
	assert.Equal(t, "password", p.Claims.Firebase.SignInProvider)
}

func TestVerifyTokenRejections(t *testing.T) {
	key := newTestKey(t)
	otherKey := newTestKey(t)
	v := newTestVerifier(key)

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not-a-jwt"},
		{name: "expired", token: signToken(t, key, func(c *FirebaseClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})},
		{name: "no expiry", token: signToken(t, key, func(c *FirebaseClaims) {
			c.ExpiresAt = nil
		})},
		{name: "wrong audience", token: signToken(t, key, func(c *FirebaseClaims) {
			c.Audience = jwt.ClaimStrings{"someone-else"}
		})},
		{name: "wrong issuer", token: signToken(t, key, func(c *FirebaseClaims) {
			c.Issuer = "https://accounts.google.com"
		})},
		{name: "signature mismatch", token: signToken(t, otherKey, nil)},
		{name: "empty subject", token: signToken(t, key, func(c *FirebaseClaims) {
			c.Subject = ""
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.VerifyToken(context.Background(), tt.token)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestVerifyTokenRejectsHMAC(t *testing.T) {
	key := newTestKey(t)
	v := newTestVerifier(key)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    firebaseIssuerPrefix + testProjectID,
		Audience:  jwt.ClaimStrings{testProjectID},
		Subject:   "uid-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.VerifyToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTVerifierRequiresProject(t *testing.T) {
	_, err := NewJWTVerifier("")
	assert.Error(t, err)
}
