package eligibility

import "sort"

// FieldKey identifies the form field an error is attached to.
type FieldKey string

const (
	FieldEmail                   FieldKey = "email"
	FieldFirstName               FieldKey = "firstName"
	FieldLastName                FieldKey = "lastName"
	FieldGender                  FieldKey = "gender"
	FieldBirthDate               FieldKey = "birthDate"
	FieldCity                    FieldKey = "city"
	FieldWhatsapp                FieldKey = "whatsapp"
	FieldVideoLink1              FieldKey = "videoLink1"
	FieldVideoLink2              FieldKey = "videoLink2"
	FieldConfirmsOnsiteRecording FieldKey = "confirmsOnsiteRecording"
	FieldAcceptsTerms            FieldKey = "acceptsTerms"

	// FieldSocialNetworks carries errors that span both networks.
	FieldSocialNetworks FieldKey = "socialNetworks"
)

// Result is the outcome of one validation pass.
type Result struct {
	FieldErrors map[FieldKey]string `json:"fieldErrors"`
	IsValid     bool                `json:"isValid"`
}

func newResult(errs map[FieldKey]string) Result {
	return Result{FieldErrors: errs, IsValid: len(errs) == 0}
}

// Error returns the message for field, or "" when the field has none.
func (r Result) Error(field FieldKey) string {
	return r.FieldErrors[field]
}

// Has reports whether field carries an error.
func (r Result) Has(field FieldKey) bool {
	_, ok := r.FieldErrors[field]
	return ok
}

// Clear returns a copy of r without field's error. Other errors are kept.
func (r Result) Clear(field FieldKey) Result {
	next := make(map[FieldKey]string, len(r.FieldErrors))
	for k, v := range r.FieldErrors {
		if k != field {
			next[k] = v
		}
	}
	return newResult(next)
}

// Fields returns the keys with errors in sorted order.
func (r Result) Fields() []FieldKey {
	keys := make([]FieldKey, 0, len(r.FieldErrors))
	for k := range r.FieldErrors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// StringMap converts the field errors for transport in job variables.
func (r Result) StringMap() map[string]string {
	out := make(map[string]string, len(r.FieldErrors))
	for k, v := range r.FieldErrors {
		out[string(k)] = v
	}
	return out
}
