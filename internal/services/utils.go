package services

import (
	"fmt"
	"strings"

	"github.com/blagoySimandov/astra/go/internal/models"
)

func applyFuncOptions[T any](entity T, opts ...func(entity T) error) error {
	for _, opt := range opts {
		err := opt(entity)
		if err != nil {
			return err
		}
	}
	return nil
}

// brandContext renders the brand attributes a prompt can use, one per line.
func brandContext(brand *models.BrandProfile) string {
	lines := []string{
		fmt.Sprintf("Business Name: %s", brand.Name),
		fmt.Sprintf("Industry: %s", brand.Industry),
	}
	optional := []struct {
		label string
		value string
	}{
		{"Tagline", brand.Tagline},
		{"Description", brand.Description},
		{"Target Audience", brand.TargetAudience},
		{"Brand Voice", brand.BrandVoice},
		{"Website", brand.Website},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", o.label, o.value))
		}
	}
	return strings.Join(lines, "\n")
}
