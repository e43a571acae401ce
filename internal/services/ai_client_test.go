package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent"), r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if seen != nil {
			require.NoError(t, json.Unmarshal(raw, seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewGeminiAIClientRequiresKey(t *testing.T) {
	_, err := NewGeminiAIClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewGeminiAIClient(context.Background(), "key", WithModel(""))
	assert.Error(t, err)
}

func TestGeminiAIClientGenerateContent(t *testing.T) {
	var seen map[string]any
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]}}]}`, &seen)

	client, err := NewGeminiAIClient(context.Background(), "test-key", WithModel("test-model"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "test-model", client.Model())

	text, err := client.GenerateContent(context.Background(), GenerationRequest{
		SystemInstruction: "be brief",
		Prompt:            "hello",
		JSON:              true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	generationConfig, ok := seen["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", generationConfig["responseMimeType"])
	assert.Contains(t, seen, "systemInstruction")
}

func TestGeminiAIClientUpstreamError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`, nil)

	client, err := NewGeminiAIClient(context.Background(), "test-key", WithModel("test-model"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerationRequest{Prompt: "hello"})
	assert.Error(t, err)
}

func TestGeminiAIClientEmptyCandidates(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	client, err := NewGeminiAIClient(context.Background(), "test-key", WithModel("test-model"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerationRequest{Prompt: "hello"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
