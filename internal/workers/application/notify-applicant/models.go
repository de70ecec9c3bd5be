// internal/workers/application/notify-applicant/models.go
package notifyapplicant

type Input struct {
	CampaignID              string `json:"campaignId"`
	CampaignTitle           string `json:"campaignTitle"`
	Email                   string `json:"email"`
	FirstName               string `json:"firstName"`
	Whatsapp                string `json:"whatsapp"`
	AcceptsMarketingContact bool   `json:"acceptsMarketingContact"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailSent      bool   `json:"emailSent"`
	SMSSent        bool   `json:"smsSent"`
	SentAt         string `json:"sentAt"`
}
