package submission

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/eligibility"
)

var today = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func femaleCampaign() eligibility.CampaignRequirement {
	return eligibility.CampaignRequirement{
		GenderTarget: eligibility.GenderTargetFemaleOnly,
		MinFollowers: 3000,
	}.WithMinAge(18)
}

func validApplicant() eligibility.ApplicantProfile {
	return eligibility.ApplicantProfile{
		Email:     "laura@example.com",
		FirstName: "Laura",
		LastName:  "Gómez",
		Gender:    eligibility.GenderFemale,
		BirthDate: "2006-10-17",
		Instagram: eligibility.SocialProfile{
			Handle:          " @laura.creates ",
			Visibility:      eligibility.VisibilityPublic,
			FollowerBracket: "3000-10000",
		},
		VideoLink1:              "https://example.com/video/1",
		VideoLink2:              "https://example.com/video/2",
		ConfirmsOnsiteRecording: true,
		City:                    "Bogotá",
		Whatsapp:                "+57 300 000 0000",
		AcceptsTerms:            true,
		AcceptsMarketingContact: true,
	}
}

func TestProfileURL(t *testing.T) {
	tests := []struct {
		network eligibility.Network
		handle  string
		want    string
	}{
		{eligibility.NetworkInstagram, "laura", "https://www.instagram.com/laura"},
		{eligibility.NetworkInstagram, "@laura", "https://www.instagram.com/laura"},
		{eligibility.NetworkTikTok, "laura", "https://www.tiktok.com/@laura"},
		{eligibility.NetworkTikTok, " @laura ", "https://www.tiktok.com/@laura"},
		{eligibility.NetworkTikTok, "https://www.tiktok.com/@laura", "https://www.tiktok.com/@laura"},
		{eligibility.NetworkInstagram, "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.network)+"/"+tt.handle, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileURL(tt.network, tt.handle))
		})
	}
}

func TestBuildPayload(t *testing.T) {
	p := BuildPayload("sub-1", "camp-1", validApplicant())

	assert.Equal(t, "sub-1", p.SubmissionID)
	assert.Equal(t, "camp-1", p.CampaignID)
	require.NotNil(t, p.Instagram)
	assert.Equal(t, "laura.creates", p.Instagram.Handle)
	assert.Equal(t, "https://www.instagram.com/laura.creates", p.Instagram.ProfileURL)
	assert.Nil(t, p.TikTok, "unfilled networks are left out")
	assert.True(t, p.AcceptsMarketingContact)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"tiktok"`)

	assert.NoError(t, CheckPayload(p))
}

func TestCheckPayload_Rejects(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Payload)
	}{
		{"no network", func(p *Payload) { p.Instagram = nil }},
		{"terms not accepted", func(p *Payload) { p.AcceptsTerms = false }},
		{"bad birth date", func(p *Payload) { p.BirthDate = "17/10/2006" }},
		{"missing campaign", func(p *Payload) { p.CampaignID = "" }},
		{"unknown gender", func(p *Payload) { p.Gender = "x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPayload("sub-1", "camp-1", validApplicant())
			tt.edit(&p)
			assert.ErrorIs(t, CheckPayload(p), ErrInvalidPayload)
		})
	}
}
