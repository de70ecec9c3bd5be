package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = date(2026, time.October, 17)

func femaleCampaign() CampaignRequirement {
	return CampaignRequirement{
		GenderTarget:  GenderTargetFemaleOnly,
		MinFollowers:  3000,
		LocationLabel: "Bogotá",
		GenderLabel:   "Mujeres",
	}.WithMinAge(18).WithPublicProfile(true)
}

func validApplicant() ApplicantProfile {
	return ApplicantProfile{
		Email:     "laura@example.com",
		FirstName: "Laura",
		LastName:  "Gómez",
		Gender:    GenderFemale,
		BirthDate: "2006-10-17",
		Instagram: SocialProfile{
			Handle:          "laura.creates",
			Visibility:      VisibilityPublic,
			FollowerBracket: "3000-10000",
		},
		VideoLink1:              "https://example.com/video/1",
		VideoLink2:              "https://example.com/video/2",
		ConfirmsOnsiteRecording: true,
		City:                    "Bogotá",
		Whatsapp:                "+57 300 000 0000",
		AcceptsTerms:            true,
	}
}

func TestValidate_ScenarioA_GenderMismatch(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Gender = GenderMale
		a.Instagram = SocialProfile{Handle: "x", Visibility: VisibilityPublic, FollowerBracket: "3000-10000"}
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.False(t, result.IsValid)
	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "This campaign is only open to female creators", result.Error(FieldGender))
}

func TestValidate_ScenarioB_Underage(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.BirthDate = "2009-01-05"
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.False(t, result.IsValid)
	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "You must be at least 18 years old to apply", result.Error(FieldBirthDate))
}

func TestValidate_ScenarioC_PrivateTikTokOnly(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{}
		a.TikTok = SocialProfile{Handle: "laura", Visibility: VisibilityPrivate, FollowerBracket: "10000+"}
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.False(t, result.IsValid)
	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "Your TikTok profile must be public", result.Error("tiktok_privado"))
	assert.False(t, result.Has(FieldSocialNetworks))
}

func TestValidate_PublicProfileRequiredByDefault(t *testing.T) {
	req := CampaignRequirement{
		GenderTarget: GenderTargetFemaleOnly,
		MinFollowers: 3000,
	}.WithMinAge(18)
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{}
		a.TikTok = SocialProfile{Handle: "creator", Visibility: VisibilityPrivate, FollowerBracket: "3000-10000"}
	})

	result := Validate(req, applicant, today)

	assert.True(t, req.PublicProfileRequired())
	assert.False(t, result.IsValid)
	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "Your TikTok profile must be public", result.Error("tiktok_privado"))
}

func TestValidate_ScenarioD_Valid(t *testing.T) {
	result := Validate(femaleCampaign(), validApplicant(), today)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.FieldErrors)
}

func TestValidate_RequiredFields(t *testing.T) {
	result := Validate(femaleCampaign(), ApplicantProfile{}, today)

	assert.False(t, result.IsValid)
	for _, key := range []FieldKey{
		FieldEmail, FieldFirstName, FieldLastName, FieldGender, FieldBirthDate,
		FieldCity, FieldWhatsapp, FieldVideoLink1, FieldVideoLink2,
	} {
		assert.Contains(t, result.Error(key), "is required", key)
	}
	assert.True(t, result.Has(FieldSocialNetworks))
	assert.True(t, result.Has(FieldConfirmsOnsiteRecording))
	assert.True(t, result.Has(FieldAcceptsTerms))
	assert.False(t, result.Has("acceptsMarketingContact"))
}

func TestValidate_WhitespaceIsEmpty(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.City = "   "
	})

	result := Validate(femaleCampaign(), applicant, today)

	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "City is required", result.Error(FieldCity))
}

func TestValidate_GenderMismatchAlwaysReported(t *testing.T) {
	male := Validate(femaleCampaign(), ApplicantProfile{Gender: GenderMale}, today)
	assert.Equal(t, "This campaign is only open to female creators", male.Error(FieldGender))

	other := Validate(femaleCampaign(), validApplicant().With(func(a *ApplicantProfile) {
		a.Gender = GenderOther
	}), today)
	assert.True(t, other.Has(FieldGender))

	maleOnly := CampaignRequirement{GenderTarget: GenderTargetMaleOnly}.WithMinAge(18)
	female := Validate(maleOnly, validApplicant(), today)
	assert.Equal(t, "This campaign is only open to male creators", female.Error(FieldGender))
}

func TestValidate_AnyGender(t *testing.T) {
	req := femaleCampaign()
	req.GenderTarget = GenderTargetAny

	for _, g := range []Gender{GenderFemale, GenderMale, GenderOther} {
		applicant := validApplicant().With(func(a *ApplicantProfile) { a.Gender = g })
		assert.True(t, Validate(req, applicant, today).IsValid, g)
	}

	unknown := validApplicant().With(func(a *ApplicantProfile) { a.Gender = "female" })
	assert.Equal(t, "Select a valid gender", Validate(req, unknown, today).Error(FieldGender))
}

func TestValidate_BirthDate(t *testing.T) {
	tests := []struct {
		name      string
		birthDate string
		want      string
	}{
		{"turns 18 today", "2008-10-17", ""},
		{"turns 18 tomorrow", "2008-10-18", "You must be at least 18 years old to apply"},
		{"unparseable", "17/10/2000", "Birth date must be a valid date (YYYY-MM-DD)"},
		{"missing", "", "Birth date is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applicant := validApplicant().With(func(a *ApplicantProfile) { a.BirthDate = tt.birthDate })
			result := Validate(femaleCampaign(), applicant, today)
			assert.Equal(t, tt.want, result.Error(FieldBirthDate))
		})
	}
}

func TestValidate_DefaultMinAge(t *testing.T) {
	req := femaleCampaign()
	req.MinAge = nil
	applicant := validApplicant().With(func(a *ApplicantProfile) { a.BirthDate = "2010-01-01" })

	result := Validate(req, applicant, today)
	assert.Equal(t, "You must be at least 18 years old to apply", result.Error(FieldBirthDate))

	engine := NewEngine(WithDefaultMinAge(16))
	assert.True(t, engine.Validate(req, applicant, today).IsValid)
}

func TestValidate_ExplicitZeroMinAge(t *testing.T) {
	req := femaleCampaign().WithMinAge(0)
	applicant := validApplicant().With(func(a *ApplicantProfile) { a.BirthDate = "2016-05-01" })

	assert.True(t, Validate(req, applicant, today).IsValid)
	assert.True(t, NewEngine(WithDefaultMinAge(21)).Validate(req, applicant, today).IsValid)
}

func TestValidate_UnknownGenderTarget(t *testing.T) {
	for _, target := range []GenderTarget{"", "robots"} {
		req := femaleCampaign()
		req.GenderTarget = target

		result := Validate(req, validApplicant(), today)

		assert.False(t, result.IsValid, target)
		assert.Equal(t, "This campaign is not accepting applications", result.Error(FieldGender), target)
	}
}

func TestValidate_HandleWithoutName(t *testing.T) {
	for _, handle := range []string{"@", " @ ", "   "} {
		applicant := validApplicant().With(func(a *ApplicantProfile) {
			a.Instagram.Handle = handle
		})

		result := Validate(femaleCampaign(), applicant, today)

		require.Len(t, result.FieldErrors, 1, handle)
		assert.Equal(t, "Add at least one social network (Instagram or TikTok)", result.Error(FieldSocialNetworks))
	}
}

func TestValidate_NoNetworks(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{Visibility: VisibilityPrivate, FollowerBracket: "0-1000"}
		a.TikTok = SocialProfile{}
	})

	result := Validate(femaleCampaign(), applicant, today)

	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "Add at least one social network (Instagram or TikTok)", result.Error(FieldSocialNetworks))
}

func TestValidate_EitherNetworkSuffices(t *testing.T) {
	eligible := SocialProfile{Handle: "creator", Visibility: VisibilityPublic, FollowerBracket: "10000+"}

	onlyInstagram := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = eligible
		a.TikTok = SocialProfile{}
	})
	onlyTikTok := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{}
		a.TikTok = eligible
	})

	assert.True(t, Validate(femaleCampaign(), onlyInstagram, today).IsValid)
	assert.True(t, Validate(femaleCampaign(), onlyTikTok, today).IsValid)
}

func TestValidate_PerNetworkErrors(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{Handle: "laura", Visibility: VisibilityUnset, FollowerBracket: "1000-2000"}
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.Equal(t, "Your Instagram profile must be public", result.Error("instagram_privado"))
	assert.Equal(t, "Your Instagram account needs at least 3000 followers for this campaign",
		result.Error("instagram_seguidores"))
	assert.False(t, result.Has(FieldSocialNetworks))
}

func TestValidate_BothNetworksIneligible(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram = SocialProfile{Handle: "laura", Visibility: VisibilityPublic, FollowerBracket: "2000-3000"}
		a.TikTok = SocialProfile{Handle: "laura", Visibility: VisibilityPrivate, FollowerBracket: "10000+"}
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.Equal(t, []FieldKey{"instagram_seguidores", FieldSocialNetworks, "tiktok_privado"}, result.Fields())
	assert.Equal(t, "At least one of your social networks must be public with 3000 or more followers",
		result.Error(FieldSocialNetworks))
}

func TestValidate_OneEligibleNetworkMasksOther(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.TikTok = SocialProfile{Handle: "laura", Visibility: VisibilityPrivate, FollowerBracket: "0-1000"}
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.Equal(t, "Your TikTok profile must be public", result.Error("tiktok_privado"))
	assert.True(t, result.Has("tiktok_seguidores"))
	assert.False(t, result.Has(FieldSocialNetworks))
}

func TestValidate_PublicProfileNotRequired(t *testing.T) {
	req := femaleCampaign().WithPublicProfile(false)
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Instagram.Visibility = VisibilityPrivate
	})

	assert.True(t, Validate(req, applicant, today).IsValid)
}

func TestValidate_MinFollowersOverride(t *testing.T) {
	req := femaleCampaign()
	req.MinFollowers = 10000

	result := Validate(req, validApplicant(), today)

	assert.Equal(t, "Your Instagram account needs at least 10000 followers for this campaign",
		result.Error("instagram_seguidores"))

	applicant := validApplicant().With(func(a *ApplicantProfile) { a.Instagram.FollowerBracket = "10000+" })
	assert.True(t, Validate(req, applicant, today).IsValid)
}

func TestValidate_DuplicateVideoLinks(t *testing.T) {
	same := validApplicant().With(func(a *ApplicantProfile) {
		a.VideoLink2 = " " + a.VideoLink1 + " "
	})
	result := Validate(femaleCampaign(), same, today)
	require.Len(t, result.FieldErrors, 1)
	assert.Equal(t, "The second video link must be different from the first", result.Error(FieldVideoLink2))

	different := Validate(femaleCampaign(), validApplicant(), today)
	assert.False(t, different.Has(FieldVideoLink2))
}

func TestValidate_Checkboxes(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.ConfirmsOnsiteRecording = false
		a.AcceptsTerms = false
		a.AcceptsMarketingContact = false
	})

	result := Validate(femaleCampaign(), applicant, today)

	assert.Equal(t, []FieldKey{FieldAcceptsTerms, FieldConfirmsOnsiteRecording}, result.Fields())
}

func TestValidate_Idempotent(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.Gender = GenderMale
		a.VideoLink2 = a.VideoLink1
		a.TikTok = SocialProfile{Handle: "x", Visibility: VisibilityPrivate}
	})

	first := Validate(femaleCampaign(), applicant, today)
	second := Validate(femaleCampaign(), applicant, today)

	assert.Equal(t, first, second)
}

func TestResult_Clear(t *testing.T) {
	applicant := validApplicant().With(func(a *ApplicantProfile) {
		a.City = ""
		a.AcceptsTerms = false
	})
	result := Validate(femaleCampaign(), applicant, today)
	require.Len(t, result.FieldErrors, 2)

	cleared := result.Clear(FieldCity)

	assert.False(t, cleared.Has(FieldCity))
	assert.True(t, cleared.Has(FieldAcceptsTerms))
	assert.False(t, cleared.IsValid)
	assert.True(t, result.Has(FieldCity), "original result is unchanged")

	assert.True(t, cleared.Clear(FieldAcceptsTerms).IsValid)
}

func TestApplicantProfile_With(t *testing.T) {
	original := validApplicant()
	edited := original.With(func(a *ApplicantProfile) { a.City = "Medellín" })

	assert.Equal(t, "Bogotá", original.City)
	assert.Equal(t, "Medellín", edited.City)
	assert.Equal(t, original, original.With(nil))
}
