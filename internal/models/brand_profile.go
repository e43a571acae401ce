package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	maxShortFieldLength = 200
	maxLongFieldLength  = 2000
	maxExtraAttributes  = 50
	maxExtraKeyLength   = 100
)

// BrandProfile is the caller's business metadata. Known attributes are
// typed; anything else is carried in Extra and round-trips untouched.
// An empty string means the attribute was not supplied.
type BrandProfile struct {
	Name           string `json:"name"`
	Industry       string `json:"industry"`
	Tagline        string `json:"tagline"`
	Description    string `json:"description"`
	TargetAudience string `json:"targetAudience"`
	BrandVoice     string `json:"brandVoice"`
	Website        string `json:"website"`
	LogoURL        string `json:"logoUrl"`

	Extra map[string]any `json:"extra"`
}

func (b *BrandProfile) knownFields() []struct {
	key   string
	value *string
} {
	return []struct {
		key   string
		value *string
	}{
		{"name", &b.Name},
		{"industry", &b.Industry},
		{"tagline", &b.Tagline},
		{"description", &b.Description},
		{"targetAudience", &b.TargetAudience},
		{"brandVoice", &b.BrandVoice},
		{"website", &b.Website},
		{"logoUrl", &b.LogoURL},
	}
}

func (b *BrandProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("brandProfile must be a JSON object: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("brandProfile must be a JSON object")
	}

	*b = BrandProfile{}
	for _, f := range b.knownFields() {
		msg, ok := raw[f.key]
		if !ok {
			continue
		}
		delete(raw, f.key)
		if string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, f.value); err != nil {
			return fmt.Errorf("brandProfile.%s must be a string", f.key)
		}
	}

	if len(raw) == 0 {
		return nil
	}
	b.Extra = make(map[string]any, len(raw))
	for key, msg := range raw {
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("brandProfile.%s: %w", key, err)
		}
		b.Extra[key] = v
	}
	return nil
}

func (b BrandProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Fields())
}

// Fields flattens the profile into the key/value pairs a merge write sets.
func (b *BrandProfile) Fields() map[string]any {
	out := make(map[string]any, len(b.Extra)+8)
	for key, value := range b.Extra {
		out[key] = value
	}
	for _, f := range b.knownFields() {
		if *f.value != "" {
			out[f.key] = *f.value
		}
	}
	return out
}

func (b BrandProfile) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.RuneLength(0, maxShortFieldLength)),
		validation.Field(&b.Industry, validation.RuneLength(0, maxShortFieldLength)),
		validation.Field(&b.Tagline, validation.RuneLength(0, maxShortFieldLength)),
		validation.Field(&b.Description, validation.RuneLength(0, maxLongFieldLength)),
		validation.Field(&b.TargetAudience, validation.RuneLength(0, maxLongFieldLength)),
		validation.Field(&b.BrandVoice, validation.RuneLength(0, maxLongFieldLength)),
		validation.Field(&b.Website, is.URL),
		validation.Field(&b.LogoURL, is.URL),
		validation.Field(&b.Extra, validation.Length(0, maxExtraAttributes), validation.By(validExtraKeys)),
	)
}

// validExtraKeys rejects attribute names that a document store cannot hold
// as a field: empty names, names over the length cap and Firestore's
// reserved __name__ form.
func validExtraKeys(value any) error {
	extra, _ := value.(map[string]any)
	for key := range extra {
		switch {
		case strings.TrimSpace(key) == "":
			return errors.New("attribute names must not be empty")
		case len([]rune(key)) > maxExtraKeyLength:
			return fmt.Errorf("attribute name %.20q... is longer than %d characters", key, maxExtraKeyLength)
		case len(key) >= 4 && strings.HasPrefix(key, "__") && strings.HasSuffix(key, "__"):
			return fmt.Errorf("attribute name %q is reserved", key)
		}
	}
	return nil
}

// BrandProfileFromMap rebuilds a profile from a stored document value.
func BrandProfileFromMap(m map[string]any) (*BrandProfile, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var b BrandProfile
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
