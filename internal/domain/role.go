package domain

import (
	"strings"

	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// Role identifies which kind of participant a profile describes.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRequester Role = "requester"
	RoleAdmin     Role = "admin"
)

// Collection names a backing store of profile records for one role.
type Collection string

const (
	CollectionDonors     Collection = "donors"
	CollectionRequesters Collection = "requesters"
	CollectionAdmins     Collection = "admins"

	// CollectionUsers holds the account records created at signup; it is
	// not role-routed and only read for login enrichment and listings.
	CollectionUsers Collection = "users"
)

// collectionByRole is the static routing table. Adding a role means
// adding exactly one entry here.
var collectionByRole = map[Role]Collection{
	RoleDonor:     CollectionDonors,
	RoleRequester: CollectionRequesters,
	RoleAdmin:     CollectionAdmins,
}

// ParseRole normalizes a declared role string, case-insensitively.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := collectionByRole[role]; !ok {
		return "", apperrors.NewInvalidRole(raw)
	}
	return role, nil
}

// ResolveCollection maps a declared role to its backing collection.
func ResolveCollection(raw string) (Collection, error) {
	role, err := ParseRole(raw)
	if err != nil {
		return "", err
	}
	return collectionByRole[role], nil
}

// Roles returns every role present in the routing table.
func Roles() []Role {
	roles := make([]Role, 0, len(collectionByRole))
	for role := range collectionByRole {
		roles = append(roles, role)
	}
	return roles
}
