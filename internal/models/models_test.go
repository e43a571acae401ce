package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandProfileKeepsExtraAttributes(t *testing.T) {
	var b BrandProfile
	err := json.Unmarshal([]byte(`{"name":"Acme","industry":"Bakery","colors":{"primary":"#ff0000"},"founded":1999}`), &b)
	require.NoError(t, err)

	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "Bakery", b.Industry)
	assert.Equal(t, map[string]any{"primary": "#ff0000"}, b.Extra["colors"])
	assert.Equal(t, float64(1999), b.Extra["founded"])

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme","industry":"Bakery","colors":{"primary":"#ff0000"},"founded":1999}`, string(out))
}

func TestBrandProfileRejectsNonObject(t *testing.T) {
	var req SaveProfileRequest
	err := json.Unmarshal([]byte(`{"brandProfile":"Acme"}`), &req)
	assert.Error(t, err)
}

func TestBrandProfileRejectsNonStringKnownField(t *testing.T) {
	var b BrandProfile
	err := json.Unmarshal([]byte(`{"name":42}`), &b)
	assert.ErrorContains(t, err, "brandProfile.name")
}

func TestSaveProfileRequestNullProfile(t *testing.T) {
	for _, body := range []string{`{}`, `{"brandProfile":null}`} {
		var req SaveProfileRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		assert.Nil(t, req.BrandProfile, body)
	}
}

func TestBrandProfileFieldsSkipsEmptyKnownFields(t *testing.T) {
	b := BrandProfile{Name: "Acme", Extra: map[string]any{"slogan": "fresh"}}

	assert.Equal(t, map[string]any{"name": "Acme", "slogan": "fresh"}, b.Fields())
}

func TestBrandProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile BrandProfile
		wantErr string
	}{
		{name: "empty profile", profile: BrandProfile{}},
		{name: "typical profile", profile: BrandProfile{Name: "Acme", Industry: "Bakery", Website: "https://acme.test"}},
		{name: "bad website", profile: BrandProfile{Website: "not a url"}, wantErr: "website"},
		{name: "long name", profile: BrandProfile{Name: strings.Repeat("a", 201)}, wantErr: "name"},
		{name: "too many extras", profile: BrandProfile{Extra: manyExtras(51)}, wantErr: "extra"},
		{name: "empty attribute name", profile: BrandProfile{Name: "Acme", Extra: map[string]any{"": "x"}}, wantErr: "must not be empty"},
		{name: "blank attribute name", profile: BrandProfile{Extra: map[string]any{"  ": "x"}}, wantErr: "must not be empty"},
		{name: "reserved attribute name", profile: BrandProfile{Extra: map[string]any{"__name__": "x"}}, wantErr: "reserved"},
		{name: "long attribute name", profile: BrandProfile{Extra: map[string]any{strings.Repeat("k", 101): "x"}}, wantErr: "longer than"},
		{name: "underscored attribute name", profile: BrandProfile{Extra: map[string]any{"_internal_": "x", "__": "y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBrandProfileFromMap(t *testing.T) {
	b, err := BrandProfileFromMap(map[string]any{"name": "Acme", "tagline": "X", "hours": "9-5"})
	require.NoError(t, err)

	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "X", b.Tagline)
	assert.Equal(t, "9-5", b.Extra["hours"])
}

func TestCampaignSingleAsset(t *testing.T) {
	payload := `{"campaignTitle":"Sourdough Week","contentType":"image","content":{"prompt":"a loaf","overlayText":"Fresh!"},"captions":["a","b","c"]}`

	var c Campaign
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	assert.Equal(t, ContentTypeImage, c.ContentType)
	require.Len(t, c.Assets, 1)
	assert.Equal(t, "Fresh!", c.Assets[0].OverlayText)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestCampaignCarousel(t *testing.T) {
	payload := `{"campaignTitle":"Menu","contentType":"carousel","content":[{"prompt":"p1","overlayText":"o1"},{"prompt":"p2","overlayText":"o2"}],"captions":["a"]}`

	var c Campaign
	require.NoError(t, json.Unmarshal([]byte(payload), &c))
	assert.Len(t, c.Assets, 2)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestCampaignRejectsWrongShape(t *testing.T) {
	tests := map[string]string{
		"not json":          `Sure! Here is your campaign`,
		"unknown type":      `{"campaignTitle":"x","contentType":"podcast","content":{},"captions":[]}`,
		"carousel object":   `{"campaignTitle":"x","contentType":"carousel","content":{"prompt":"p"},"captions":[]}`,
		"image array":       `{"campaignTitle":"x","contentType":"image","content":[{"prompt":"p"}],"captions":[]}`,
		"missing title":     `{"contentType":"image","content":{"prompt":"p"},"captions":[]}`,
		"missing content":   `{"campaignTitle":"x","contentType":"video","captions":[]}`,
		"empty carousel":    `{"campaignTitle":"x","contentType":"carousel","content":[],"captions":[]}`,
		"captions not list": `{"campaignTitle":"x","contentType":"video","content":{"prompt":"p"},"captions":"a"}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			var c Campaign
			assert.Error(t, json.Unmarshal([]byte(payload), &c))
		})
	}
}

func TestUserProfileToResponse(t *testing.T) {
	u := &UserProfile{
		ID:           "uid-1",
		BrandProfile: &BrandProfile{Name: "Acme"},
		Subscription: Subscription{Plan: "free", Status: "active"},
	}

	out, err := json.Marshal(u.ToResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{"brandProfile":{"name":"Acme"},"subscription":{"plan":"free","status":"active"},"usage":{"generationsThisMonth":0}}`, string(out))
}

func manyExtras(n int) map[string]any {
	m := make(map[string]any, n)
	for i := 0; i < n; i++ {
		m[strings.Repeat("k", i+1)] = i
	}
	return m
}
