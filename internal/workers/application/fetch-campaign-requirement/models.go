// internal/workers/application/fetch-campaign-requirement/models.go
package fetchcampaignrequirement

import "creator-campaign-workers/internal/eligibility"

type Input struct {
	CampaignID string `json:"campaignId"`
}

type Output struct {
	Requirement eligibility.CampaignRequirement `json:"requirement"`
}
