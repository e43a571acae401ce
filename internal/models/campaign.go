package models

import (
	"encoding/json"
	"fmt"
)

type ContentType string

const (
	ContentTypeImage    ContentType = "image"
	ContentTypeVideo    ContentType = "video"
	ContentTypeCarousel ContentType = "carousel"
)

// CampaignAsset is one piece of media: a prompt for the media generator and
// the headline laid over it.
type CampaignAsset struct {
	Prompt      string `json:"prompt"`
	OverlayText string `json:"overlayText"`
}

// Campaign is the mini-campaign plan returned by generate-campaign. Image
// and video campaigns carry exactly one asset, carousels carry several; the
// wire form mirrors that as an object or an array under "content".
type Campaign struct {
	CampaignTitle string          `json:"-"`
	ContentType   ContentType     `json:"-"`
	Assets        []CampaignAsset `json:"-"`
	Captions      []string        `json:"-"`
}

type campaignWire struct {
	CampaignTitle string          `json:"campaignTitle"`
	ContentType   ContentType     `json:"contentType"`
	Content       json.RawMessage `json:"content"`
	Captions      []string        `json:"captions"`
}

func (c *Campaign) UnmarshalJSON(data []byte) error {
	var wire campaignWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.CampaignTitle == "" {
		return fmt.Errorf("campaign: missing campaignTitle")
	}
	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return fmt.Errorf("campaign: missing content")
	}

	var assets []CampaignAsset
	switch wire.ContentType {
	case ContentTypeImage, ContentTypeVideo:
		var asset CampaignAsset
		if err := json.Unmarshal(wire.Content, &asset); err != nil {
			return fmt.Errorf("campaign: %s content must be an object: %w", wire.ContentType, err)
		}
		assets = []CampaignAsset{asset}
	case ContentTypeCarousel:
		if err := json.Unmarshal(wire.Content, &assets); err != nil {
			return fmt.Errorf("campaign: carousel content must be an array: %w", err)
		}
		if len(assets) == 0 {
			return fmt.Errorf("campaign: carousel content is empty")
		}
	default:
		return fmt.Errorf("campaign: unknown contentType %q", wire.ContentType)
	}

	*c = Campaign{
		CampaignTitle: wire.CampaignTitle,
		ContentType:   wire.ContentType,
		Assets:        assets,
		Captions:      wire.Captions,
	}
	return nil
}

func (c Campaign) MarshalJSON() ([]byte, error) {
	var content any
	if c.ContentType == ContentTypeCarousel {
		content = c.Assets
	} else if len(c.Assets) > 0 {
		content = c.Assets[0]
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	captions := c.Captions
	if captions == nil {
		captions = []string{}
	}
	return json.Marshal(campaignWire{
		CampaignTitle: c.CampaignTitle,
		ContentType:   c.ContentType,
		Content:       raw,
		Captions:      captions,
	})
}

type GenerateCampaignRequest struct {
	UserGoal     string        `json:"userGoal"`
	BrandProfile *BrandProfile `json:"brandProfile"`
}

type GenerateResponseRequest struct {
	Prompt       string        `json:"prompt"`
	BrandProfile *BrandProfile `json:"brandProfile"`
}

type GenerateResponseResponse struct {
	Response string `json:"response"`
}

type SaveProfileRequest struct {
	BrandProfile *BrandProfile `json:"brandProfile"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
