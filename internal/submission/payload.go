// Package submission sends validated campaign applications to the submission endpoint.
package submission

import (
	"fmt"
	"strings"
	"sync"

	"creator-campaign-workers/internal/common/validation"
	"creator-campaign-workers/internal/eligibility"
)

// SocialPayload is a provided network with its handle expanded to a profile URL.
type SocialPayload struct {
	Handle          string                 `json:"handle"`
	ProfileURL      string                 `json:"profileUrl"`
	Visibility      eligibility.Visibility `json:"visibility"`
	FollowerBracket eligibility.BracketID  `json:"followerBracket"`
}

// Payload is the JSON body posted to the submission endpoint.
type Payload struct {
	SubmissionID            string             `json:"submissionId"`
	CampaignID              string             `json:"campaignId"`
	Email                   string             `json:"email"`
	FirstName               string             `json:"firstName"`
	LastName                string             `json:"lastName"`
	Gender                  eligibility.Gender `json:"gender"`
	BirthDate               string             `json:"birthDate"`
	City                    string             `json:"city"`
	Whatsapp                string             `json:"whatsapp"`
	Instagram               *SocialPayload     `json:"instagram,omitempty"`
	TikTok                  *SocialPayload     `json:"tiktok,omitempty"`
	VideoLink1              string             `json:"videoLink1"`
	VideoLink2              string             `json:"videoLink2"`
	ConfirmsOnsiteRecording bool               `json:"confirmsOnsiteRecording"`
	AcceptsTerms            bool               `json:"acceptsTerms"`
	AcceptsMarketingContact bool               `json:"acceptsMarketingContact"`
}

// BuildPayload converts a validated profile into the endpoint's body.
func BuildPayload(submissionID, campaignID string, a eligibility.ApplicantProfile) Payload {
	return Payload{
		SubmissionID:            submissionID,
		CampaignID:              campaignID,
		Email:                   strings.TrimSpace(a.Email),
		FirstName:               strings.TrimSpace(a.FirstName),
		LastName:                strings.TrimSpace(a.LastName),
		Gender:                  a.Gender,
		BirthDate:               strings.TrimSpace(a.BirthDate),
		City:                    strings.TrimSpace(a.City),
		Whatsapp:                strings.TrimSpace(a.Whatsapp),
		Instagram:               socialPayload(eligibility.NetworkInstagram, a.Instagram),
		TikTok:                  socialPayload(eligibility.NetworkTikTok, a.TikTok),
		VideoLink1:              strings.TrimSpace(a.VideoLink1),
		VideoLink2:              strings.TrimSpace(a.VideoLink2),
		ConfirmsOnsiteRecording: a.ConfirmsOnsiteRecording,
		AcceptsTerms:            a.AcceptsTerms,
		AcceptsMarketingContact: a.AcceptsMarketingContact,
	}
}

func socialPayload(n eligibility.Network, p eligibility.SocialProfile) *SocialPayload {
	if !p.Provided() {
		return nil
	}
	handle := eligibility.NormalizeHandle(p.Handle)
	return &SocialPayload{
		Handle:          handle,
		ProfileURL:      ProfileURL(n, handle),
		Visibility:      p.Visibility,
		FollowerBracket: p.FollowerBracket,
	}
}

// ProfileURL expands a handle into the network's public profile URL.
func ProfileURL(n eligibility.Network, handle string) string {
	handle = eligibility.NormalizeHandle(handle)
	if handle == "" || eligibility.IsProfileURL(handle) {
		return handle
	}
	switch n {
	case eligibility.NetworkInstagram:
		return "https://www.instagram.com/" + handle
	case eligibility.NetworkTikTok:
		return "https://www.tiktok.com/@" + handle
	default:
		return handle
	}
}

var socialSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"handle", "profileUrl"},
	"properties": map[string]interface{}{
		"handle":     map[string]interface{}{"type": "string", "minLength": 1},
		"profileUrl": map[string]interface{}{"type": "string", "pattern": "^https?://"},
	},
}

// payloadSchema is the contract of the submission endpoint.
var payloadSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"submissionId", "campaignId", "email", "firstName", "lastName", "gender", "birthDate",
		"city", "whatsapp", "videoLink1", "videoLink2", "confirmsOnsiteRecording", "acceptsTerms",
	},
	"properties": map[string]interface{}{
		"submissionId":            map[string]interface{}{"type": "string", "minLength": 1},
		"campaignId":              map[string]interface{}{"type": "string", "minLength": 1},
		"email":                   map[string]interface{}{"type": "string", "minLength": 1},
		"firstName":               map[string]interface{}{"type": "string", "minLength": 1},
		"lastName":                map[string]interface{}{"type": "string", "minLength": 1},
		"gender":                  map[string]interface{}{"enum": []interface{}{"femenino", "masculino", "otro"}},
		"birthDate":               map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"city":                    map[string]interface{}{"type": "string", "minLength": 1},
		"whatsapp":                map[string]interface{}{"type": "string", "minLength": 1},
		"instagram":               socialSchema,
		"tiktok":                  socialSchema,
		"videoLink1":              map[string]interface{}{"type": "string", "minLength": 1},
		"videoLink2":              map[string]interface{}{"type": "string", "minLength": 1},
		"confirmsOnsiteRecording": map[string]interface{}{"const": true},
		"acceptsTerms":            map[string]interface{}{"const": true},
		"acceptsMarketingContact": map[string]interface{}{"type": "boolean"},
	},
	"anyOf": []interface{}{
		map[string]interface{}{"required": []interface{}{"instagram"}},
		map[string]interface{}{"required": []interface{}{"tiktok"}},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *validation.Schema
	compileErr     error
)

// CheckPayload verifies p against the endpoint contract before it is sent.
func CheckPayload(p Payload) error {
	compileOnce.Do(func() {
		compiledSchema, compileErr = validation.Compile(payloadSchema)
	})
	if compileErr != nil {
		return compileErr
	}

	result, err := compiledSchema.Validate(p)
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, result.Summary())
	}
	return nil
}
