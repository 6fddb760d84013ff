package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

func TestResolveCollection_Totality(t *testing.T) {
	cases := map[string]Collection{
		"donor":     CollectionDonors,
		"requester": CollectionRequesters,
		"admin":     CollectionAdmins,
	}
	for role, want := range cases {
		got, err := ResolveCollection(role)
		require.NoError(t, err, "role %q", role)
		require.Equal(t, want, got)
	}
}

func TestResolveCollection_CaseInsensitive(t *testing.T) {
	for _, raw := range []string{"Donor", "DONOR", " donor "} {
		got, err := ResolveCollection(raw)
		require.NoError(t, err, "role %q", raw)
		require.Equal(t, CollectionDonors, got)
	}
}

func TestResolveCollection_UnknownRole(t *testing.T) {
	for _, raw := range []string{"", "superuser", "donors", "users"} {
		_, err := ResolveCollection(raw)
		require.Error(t, err, "role %q", raw)

		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		require.Equal(t, "INVALID_ROLE", domainErr.Code)
	}
}

func TestRoles_MatchesRoutingTable(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 3)
	for _, role := range roles {
		_, err := ResolveCollection(string(role))
		require.NoError(t, err)
	}
}

func TestProfileMatchesEmail(t *testing.T) {
	profile := Profile{FieldEmail: "A@B.com"}
	require.True(t, profile.MatchesEmail("a@b.com"))
	require.True(t, profile.MatchesEmail("A@B.COM"))
	require.False(t, profile.MatchesEmail("other@b.com"))

	require.False(t, Profile{}.MatchesEmail("a@b.com"))
	require.False(t, Profile{FieldEmail: 42}.MatchesEmail("a@b.com"))
}
