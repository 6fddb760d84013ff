package domain

import "strings"

// Field names every profile carries regardless of role.
const (
	FieldEmail        = "email"
	FieldRole         = "role"
	FieldCreatedAt    = "createdat"
	FieldUpdatedAt    = "updatedat"
	FieldAvailability = "availability"
)

// Profile is a schemaless record describing a user within one collection.
// Beyond the reserved fields above, caller-supplied keys are stored
// verbatim without schema validation.
type Profile map[string]any

// Email returns the profile's email field, or "" when absent or not a string.
func (p Profile) Email() string {
	email, _ := p[FieldEmail].(string)
	return email
}

// MatchesEmail reports whether the profile's email equals the given one
// under case-insensitive comparison.
func (p Profile) MatchesEmail(email string) bool {
	return p.Email() != "" && strings.EqualFold(p.Email(), email)
}

// Clone returns a shallow copy. Nested values are shared; the upsert
// flow only ever merges at the top level.
func (p Profile) Clone() Profile {
	clone := make(Profile, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}
