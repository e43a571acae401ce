package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	jsonMIMEType       = "application/json"
)

var ErrEmptyResponse = errors.New("model returned no text")

// GenerationRequest is one prompt sent to the model.
type GenerationRequest struct {
	SystemInstruction string
	Prompt            string
	// JSON asks the model for an application/json response body.
	JSON bool
}

type TextGenerator interface {
	GenerateContent(ctx context.Context, req GenerationRequest) (string, error)
}

type GeminiAIClient struct {
	client *genai.Client
	model  string
}

type geminiAIClientSettings struct {
	model   string
	baseURL string
}

type GeminiAIClientFuncOptions = func(settings *geminiAIClientSettings) error

func NewGeminiAIClient(ctx context.Context, apiKey string, opts ...GeminiAIClientFuncOptions) (*GeminiAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	settings := geminiAIClientSettings{model: defaultGeminiModel}
	if err := applyFuncOptions(&settings, opts...); err != nil {
		return nil, fmt.Errorf("failed to apply options: %w", err)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: settings.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &GeminiAIClient{
		client: client,
		model:  settings.model,
	}, nil
}

func WithModel(model string) GeminiAIClientFuncOptions {
	return func(settings *geminiAIClientSettings) error {
		if model == "" {
			return errors.New("model must not be empty")
		}
		settings.model = model
		return nil
	}
}

// WithBaseURL points the client at a different Gemini API host.
func WithBaseURL(baseURL string) GeminiAIClientFuncOptions {
	return func(settings *geminiAIClientSettings) error {
		settings.baseURL = baseURL
		return nil
	}
}

func (g *GeminiAIClient) Model() string {
	return g.model
}

func (g *GeminiAIClient) GenerateContent(ctx context.Context, req GenerationRequest) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = jsonMIMEType
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
