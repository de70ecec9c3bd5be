// Package catalog loads campaign requirements from the campaign catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"creator-campaign-workers/internal/eligibility"
)

var (
	ErrCampaignNotFound   = errors.New("CAMPAIGN_NOT_FOUND")
	ErrInvalidRequirement = errors.New("INVALID_CAMPAIGN_REQUIREMENT")
	ErrUnavailable        = errors.New("CATALOG_UNAVAILABLE")
)

// Source returns the requirement of an active campaign.
type Source interface {
	Requirement(ctx context.Context, campaignID string) (eligibility.CampaignRequirement, error)
}

var validate = validator.New()

// checkRequirement rejects requirements the engine cannot evaluate.
func checkRequirement(campaignID string, req eligibility.CampaignRequirement) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: campaign %s: %s", ErrInvalidRequirement, campaignID, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: campaign %s: %v", ErrInvalidRequirement, campaignID, err)
	}
	return nil
}

// normalizeGenderTarget maps catalog spellings onto the engine's values.
func normalizeGenderTarget(raw string) eligibility.GenderTarget {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "any", "all":
		return eligibility.GenderTargetAny
	case "female_only", "female", "femenino":
		return eligibility.GenderTargetFemaleOnly
	case "male_only", "male", "masculino":
		return eligibility.GenderTargetMaleOnly
	default:
		return eligibility.GenderTarget(raw)
	}
}
