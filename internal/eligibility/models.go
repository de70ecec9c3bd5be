// internal/eligibility/models.go
package eligibility

import "strings"

// GenderTarget restricts which applicants a campaign accepts.
type GenderTarget string

const (
	GenderTargetAny        GenderTarget = "any"
	GenderTargetFemaleOnly GenderTarget = "female_only"
	GenderTargetMaleOnly   GenderTarget = "male_only"
)

// Gender is the applicant's declared gender as sent by the application form.
type Gender string

const (
	GenderFemale Gender = "femenino"
	GenderMale   Gender = "masculino"
	GenderOther  Gender = "otro"
)

// Visibility of a social profile. The zero value means the applicant has not chosen yet.
type Visibility string

const (
	VisibilityUnset   Visibility = ""
	VisibilityPublic  Visibility = "publico"
	VisibilityPrivate Visibility = "privado"
)

// Network identifies one of the supported social networks.
type Network string

const (
	NetworkInstagram Network = "instagram"
	NetworkTikTok    Network = "tiktok"
)

// Networks lists the supported networks in evaluation order.
var Networks = []Network{NetworkInstagram, NetworkTikTok}

func (n Network) displayName() string {
	switch n {
	case NetworkInstagram:
		return "Instagram"
	case NetworkTikTok:
		return "TikTok"
	default:
		return string(n)
	}
}

// CampaignRequirement describes who may apply to a campaign. It is owned by
// the campaign catalog and treated as read-only here.
//
// MinAge and RequiresPublicProfile are optional: a nil MinAge means the
// engine's default minimum age applies, and a nil RequiresPublicProfile means
// a public profile is required.
type CampaignRequirement struct {
	GenderTarget          GenderTarget `json:"genderTarget" validate:"required,oneof=any female_only male_only"`
	MinAge                *int         `json:"minAge,omitempty" validate:"omitempty,gte=0"`
	MinFollowers          int          `json:"minFollowers" validate:"gte=0"`
	RequiresPublicProfile *bool        `json:"requiresPublicProfile,omitempty"`
	LocationLabel         string       `json:"locationLabel,omitempty"`
	GenderLabel           string       `json:"genderLabel,omitempty"`
}

// PublicProfileRequired reports whether provided networks must be public.
func (r CampaignRequirement) PublicProfileRequired() bool {
	return r.RequiresPublicProfile == nil || *r.RequiresPublicProfile
}

// WithMinAge returns a copy with an explicit minimum age.
func (r CampaignRequirement) WithMinAge(age int) CampaignRequirement {
	r.MinAge = &age
	return r
}

// WithPublicProfile returns a copy with an explicit public-profile rule.
func (r CampaignRequirement) WithPublicProfile(required bool) CampaignRequirement {
	r.RequiresPublicProfile = &required
	return r
}

// SocialProfile is one network sub-profile of the application form.
type SocialProfile struct {
	Handle          string     `json:"handle"`
	Visibility      Visibility `json:"visibility"`
	FollowerBracket BracketID  `json:"followerBracket"`
}

// Provided reports whether the applicant filled in this network. A handle
// that is empty once normalized, such as "@", does not count.
func (p SocialProfile) Provided() bool {
	return NormalizeHandle(p.Handle) != ""
}

// NormalizeHandle trims whitespace and a leading "@". URLs are returned trimmed.
func NormalizeHandle(raw string) string {
	h := strings.TrimSpace(raw)
	if IsProfileURL(h) {
		return h
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "@"))
}

// IsProfileURL reports whether a handle was given as a full profile URL.
func IsProfileURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ApplicantProfile is the form state submitted by a prospective creator.
type ApplicantProfile struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    Gender `json:"gender"`
	// BirthDate is formatted as YYYY-MM-DD.
	BirthDate string `json:"birthDate"`

	Instagram SocialProfile `json:"instagram"`
	TikTok    SocialProfile `json:"tiktok"`

	VideoLink1 string `json:"videoLink1"`
	VideoLink2 string `json:"videoLink2"`

	ConfirmsOnsiteRecording bool   `json:"confirmsOnsiteRecording"`
	City                    string `json:"city"`
	Whatsapp                string `json:"whatsapp"`
	AcceptsTerms            bool   `json:"acceptsTerms"`
	AcceptsMarketingContact bool   `json:"acceptsMarketingContact"`
}

// Social returns the sub-profile for a network.
func (a ApplicantProfile) Social(n Network) SocialProfile {
	if n == NetworkTikTok {
		return a.TikTok
	}
	return a.Instagram
}

// With returns a copy of the profile with edit applied. The receiver is not modified.
func (a ApplicantProfile) With(edit func(*ApplicantProfile)) ApplicantProfile {
	next := a
	if edit != nil {
		edit(&next)
	}
	return next
}
