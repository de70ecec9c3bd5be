// internal/eligibility/validate.go
package eligibility

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMinAge applies when a requirement leaves MinAge unset.
const DefaultMinAge = 18

// Engine validates applicant profiles against campaign requirements. It holds
// no per-call state and is safe for concurrent use.
type Engine struct {
	brackets      BracketTable
	defaultMinAge int
}

type Option func(*Engine)

// WithBrackets replaces the default follower bracket table.
func WithBrackets(t BracketTable) Option {
	return func(e *Engine) { e.brackets = t }
}

// WithDefaultMinAge sets the minimum age used when a requirement has none.
func WithDefaultMinAge(age int) Option {
	return func(e *Engine) {
		if age > 0 {
			e.defaultMinAge = age
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		brackets:      DefaultBrackets(DefaultFollowerCutoff),
		defaultMinAge: DefaultMinAge,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Validate runs the default engine. A requirement with a gender target other
// than any, female_only or male_only accepts no applicant.
func Validate(req CampaignRequirement, applicant ApplicantProfile, today time.Time) Result {
	return defaultEngine.Validate(req, applicant, today)
}

// Validate checks every rule and collects all field errors in one pass.
func (e *Engine) Validate(req CampaignRequirement, a ApplicantProfile, today time.Time) Result {
	errs := make(map[FieldKey]string)

	e.checkRequired(a, errs)
	e.checkGender(req, a, errs)
	e.checkAge(req, a, today, errs)
	e.checkNetworks(req, a, errs)
	e.checkVideos(a, errs)

	if !a.ConfirmsOnsiteRecording {
		errs[FieldConfirmsOnsiteRecording] = "You must confirm you are available for on-site recording"
	}
	if !a.AcceptsTerms {
		errs[FieldAcceptsTerms] = "You must accept the terms and conditions"
	}

	return newResult(errs)
}

// Networks resolves both networks for a requirement.
func (e *Engine) Networks(req CampaignRequirement, a ApplicantProfile) []NetworkStatus {
	brackets := e.bracketsFor(req)
	out := make([]NetworkStatus, 0, len(Networks))
	for _, n := range Networks {
		out = append(out, ResolveNetwork(n, a.Social(n), brackets, req.PublicProfileRequired()))
	}
	return out
}

// MinFollowers is the follower threshold applied to req.
func (e *Engine) MinFollowers(req CampaignRequirement) int {
	return e.bracketsFor(req).Cutoff()
}

func (e *Engine) bracketsFor(req CampaignRequirement) BracketTable {
	if req.MinFollowers > 0 && req.MinFollowers != e.brackets.Cutoff() {
		return e.brackets.WithCutoff(req.MinFollowers)
	}
	return e.brackets
}

func (e *Engine) minAge(req CampaignRequirement) int {
	if req.MinAge != nil {
		return *req.MinAge
	}
	return e.defaultMinAge
}

var requiredFields = []struct {
	key   FieldKey
	label string
	value func(ApplicantProfile) string
}{
	{FieldEmail, "Email", func(a ApplicantProfile) string { return a.Email }},
	{FieldFirstName, "First name", func(a ApplicantProfile) string { return a.FirstName }},
	{FieldLastName, "Last name", func(a ApplicantProfile) string { return a.LastName }},
	{FieldGender, "Gender", func(a ApplicantProfile) string { return string(a.Gender) }},
	{FieldBirthDate, "Birth date", func(a ApplicantProfile) string { return a.BirthDate }},
	{FieldCity, "City", func(a ApplicantProfile) string { return a.City }},
	{FieldWhatsapp, "WhatsApp number", func(a ApplicantProfile) string { return a.Whatsapp }},
	{FieldVideoLink1, "First video link", func(a ApplicantProfile) string { return a.VideoLink1 }},
	{FieldVideoLink2, "Second video link", func(a ApplicantProfile) string { return a.VideoLink2 }},
}

func (e *Engine) checkRequired(a ApplicantProfile, errs map[FieldKey]string) {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(a)) == "" {
			errs[f.key] = f.label + " is required"
		}
	}
}

func (e *Engine) checkGender(req CampaignRequirement, a ApplicantProfile, errs map[FieldKey]string) {
	if _, set := errs[FieldGender]; set {
		return
	}
	switch a.Gender {
	case GenderFemale, GenderMale, GenderOther:
	default:
		errs[FieldGender] = "Select a valid gender"
		return
	}

	var want Gender
	switch req.GenderTarget {
	case GenderTargetFemaleOnly:
		want = GenderFemale
	case GenderTargetMaleOnly:
		want = GenderMale
	case GenderTargetAny:
		return
	default:
		errs[FieldGender] = "This campaign is not accepting applications"
		return
	}
	if a.Gender != want {
		errs[FieldGender] = fmt.Sprintf("This campaign is only open to %s creators", audience(req.GenderTarget))
	}
}

func audience(t GenderTarget) string {
	if t == GenderTargetMaleOnly {
		return "male"
	}
	return "female"
}

func (e *Engine) checkAge(req CampaignRequirement, a ApplicantProfile, today time.Time, errs map[FieldKey]string) {
	if _, set := errs[FieldBirthDate]; set {
		return
	}
	born, err := ParseBirthDate(a.BirthDate)
	if err != nil {
		errs[FieldBirthDate] = "Birth date must be a valid date (YYYY-MM-DD)"
		return
	}
	if required := e.minAge(req); Age(born, today) < required {
		errs[FieldBirthDate] = fmt.Sprintf("You must be at least %d years old to apply", required)
	}
}

func (e *Engine) checkNetworks(req CampaignRequirement, a ApplicantProfile, errs map[FieldKey]string) {
	statuses := e.Networks(req, a)
	minFollowers := e.MinFollowers(req)

	provided := 0
	eligible := 0
	for _, s := range statuses {
		if !s.Provided {
			continue
		}
		provided++
		if s.Eligible {
			eligible++
			continue
		}
		if req.PublicProfileRequired() && !s.Public {
			errs[VisibilityField(s.Network)] = fmt.Sprintf("Your %s profile must be public", s.Network.displayName())
		}
		if !s.BracketEligible {
			errs[FollowersField(s.Network)] = fmt.Sprintf("Your %s account needs at least %d followers for this campaign",
				s.Network.displayName(), minFollowers)
		}
	}

	switch {
	case provided == 0:
		errs[FieldSocialNetworks] = "Add at least one social network (Instagram or TikTok)"
	case eligible == 0 && provided > 1:
		errs[FieldSocialNetworks] = fmt.Sprintf(
			"At least one of your social networks must be public with %d or more followers", minFollowers)
	}
}

func (e *Engine) checkVideos(a ApplicantProfile, errs map[FieldKey]string) {
	first := strings.TrimSpace(a.VideoLink1)
	second := strings.TrimSpace(a.VideoLink2)
	if first == "" || second == "" {
		return
	}
	if first == second {
		errs[FieldVideoLink2] = "The second video link must be different from the first"
	}
}
