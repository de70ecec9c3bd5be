// internal/workers/application/submit-campaign-application/models.go
package submitcampaignapplication

import "creator-campaign-workers/internal/eligibility"

const (
	StatusSuccess = "success"
	StatusIgnored = "ignored"
)

type Input struct {
	CampaignID string `json:"campaignId"`
	// SessionID identifies the applicant's form session; with CampaignID it
	// keys the in-flight guard.
	SessionID   string                          `json:"sessionId"`
	Requirement eligibility.CampaignRequirement `json:"requirement"`
	Applicant   eligibility.ApplicantProfile    `json:"applicant"`
	Today       string                          `json:"today,omitempty"`
}

type Output struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submissionId,omitempty"`
	Message      string `json:"message,omitempty"`
}
