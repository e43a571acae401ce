package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blagoySimandov/astra/go/internal/apperr"
	"github.com/blagoySimandov/astra/go/internal/metrics"
	"github.com/blagoySimandov/astra/go/internal/models"
)

const (
	KindCampaign = "campaign"
	KindResponse = "response"

	msgRelayUnavailable  = "Generation service unavailable."
	msgBrandMissing      = "Brand profile is missing."
	msgBrandIncomplete   = "Brand profile must include name and industry."
	msgGoalMissing       = "userGoal is required."
	msgPromptMissing     = "prompt is required."
	msgCampaignFailed    = "Failed to generate campaign plan."
	msgResponseFailed    = "Failed to generate response."
	campaignSystemPrompt = `You are 'Astra,' an expert social media marketing strategist. Your task is to generate a complete mini-campaign. Decide if a single 'image', 'video', or a 'carousel' is best. Return a single, valid JSON object. For 'image' or 'video': {"campaignTitle": string, "contentType": "image" | "video", "content": {"prompt": string, "overlayText": string}, "captions": [...]}. For 'carousel': {"campaignTitle": string, "contentType": "carousel", "content": [{"prompt": string, "overlayText": string}, ...], "captions": [...]}. The 'prompt' is for the media generator. 'overlayText' is a short, punchy headline. Generate 3 captions.`
	responseSystemPrompt = `You are 'Astra,' an expert social media marketing assistant working for the business described below. Answer the user's request directly, in the brand's voice when one is given, as plain text without markdown headings.`
)

var errRelayUnconfigured = errors.New("generation relay is not configured")

type Generator interface {
	GenerateCampaign(ctx context.Context, brand *models.BrandProfile, userGoal string) (*models.Campaign, error)
	GenerateResponse(ctx context.Context, brand *models.BrandProfile, prompt string) (string, error)
	Configured() bool
}

// GenerationRelay makes exactly one model call per request and never
// retries. Every failure past input validation is a BadGateway.
type GenerationRelay struct {
	client TextGenerator
}

// NewGenerationRelay accepts a nil client; the relay then reports
// ServiceUnavailable for every call.
func NewGenerationRelay(client TextGenerator) *GenerationRelay {
	return &GenerationRelay{client: client}
}

func (g *GenerationRelay) Configured() bool {
	return g.client != nil
}

func (g *GenerationRelay) GenerateCampaign(ctx context.Context, brand *models.BrandProfile, userGoal string) (*models.Campaign, error) {
	if err := g.precheck(KindCampaign, brand, userGoal, msgGoalMissing); err != nil {
		return nil, err
	}

	text, err := g.client.GenerateContent(ctx, GenerationRequest{
		SystemInstruction: campaignSystemPrompt,
		Prompt:            buildCampaignPrompt(brand, userGoal),
		JSON:              true,
	})
	if err != nil {
		metrics.RecordGeneration(KindCampaign, metrics.OutcomeUpstream)
		return nil, apperr.Wrap(apperr.BadGateway, msgCampaignFailed, err)
	}

	var campaign models.Campaign
	if err := json.Unmarshal([]byte(text), &campaign); err != nil {
		metrics.RecordGeneration(KindCampaign, metrics.OutcomeMalformed)
		return nil, apperr.Wrap(apperr.BadGateway, msgCampaignFailed, fmt.Errorf("malformed campaign payload: %w", err))
	}

	metrics.RecordGeneration(KindCampaign, metrics.OutcomeSuccess)
	return &campaign, nil
}

func (g *GenerationRelay) GenerateResponse(ctx context.Context, brand *models.BrandProfile, prompt string) (string, error) {
	if err := g.precheck(KindResponse, brand, prompt, msgPromptMissing); err != nil {
		return "", err
	}

	text, err := g.client.GenerateContent(ctx, GenerationRequest{
		SystemInstruction: responseSystemPrompt,
		Prompt:            buildResponsePrompt(brand, prompt),
	})
	if err != nil {
		metrics.RecordGeneration(KindResponse, metrics.OutcomeUpstream)
		return "", apperr.Wrap(apperr.BadGateway, msgResponseFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.RecordGeneration(KindResponse, metrics.OutcomeMalformed)
		return "", apperr.Wrap(apperr.BadGateway, msgResponseFailed, ErrEmptyResponse)
	}

	metrics.RecordGeneration(KindResponse, metrics.OutcomeSuccess)
	return text, nil
}

func (g *GenerationRelay) precheck(kind string, brand *models.BrandProfile, input, missingInputMsg string) error {
	if brand == nil {
		metrics.RecordGeneration(kind, metrics.OutcomeBadRequest)
		return apperr.New(apperr.BadRequest, msgBrandMissing)
	}
	if strings.TrimSpace(brand.Name) == "" || strings.TrimSpace(brand.Industry) == "" {
		metrics.RecordGeneration(kind, metrics.OutcomeBadRequest)
		return apperr.New(apperr.BadRequest, msgBrandIncomplete)
	}
	if strings.TrimSpace(input) == "" {
		metrics.RecordGeneration(kind, metrics.OutcomeBadRequest)
		return apperr.New(apperr.BadRequest, missingInputMsg)
	}
	if !g.Configured() {
		metrics.RecordGeneration(kind, metrics.OutcomeUnavailable)
		return apperr.Wrap(apperr.ServiceUnavailable, msgRelayUnavailable, errRelayUnconfigured)
	}
	return nil
}

func buildCampaignPrompt(brand *models.BrandProfile, userGoal string) string {
	return fmt.Sprintf("%s\nUser's Goal: %s", brandContext(brand), userGoal)
}

func buildResponsePrompt(brand *models.BrandProfile, prompt string) string {
	return fmt.Sprintf("%s\n\nUser's Request: %s", brandContext(brand), prompt)
}
