// internal/workers/application/validate-campaign-application/models.go
package validatecampaignapplication

import "creator-campaign-workers/internal/eligibility"

type Input struct {
	CampaignID  string                          `json:"campaignId"`
	Requirement eligibility.CampaignRequirement `json:"requirement"`
	Applicant   eligibility.ApplicantProfile    `json:"applicant"`
	// Today overrides the evaluation date (YYYY-MM-DD).
	Today string `json:"today,omitempty"`
}

type Output struct {
	IsValid     bool              `json:"isValid"`
	FieldErrors map[string]string `json:"fieldErrors"`
}
