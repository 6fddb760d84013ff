package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/authprovider"
	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/repository"
	"github.com/spec-kit/bloodbound-service/internal/store"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

type fakeProvider struct {
	token string
	err   error
}

func (f *fakeProvider) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeProvider) Signup(ctx context.Context, params authprovider.SignupParams) (string, error) {
	return f.token, f.err
}

func tokenWithPayload(payload string) string {
	return "header." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func newTestAuthService(provider Provider, recordStore store.RecordStore) *AuthService {
	return NewAuthService(AuthDependencies{
		Provider:    provider,
		ProfileRepo: repository.NewProfileRepository(recordStore, zap.NewNop()),
		Logger:      zap.NewNop(),
	})
}

func TestLogin_EnrichesFromUsersCollection(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	_, err := memStore.Insert(ctx, string(domain.CollectionUsers), map[string]any{
		"email": "Jane@X.com", "firstname": "Jane", "role": "donor",
	})
	require.NoError(t, err)

	provider := &fakeProvider{token: tokenWithPayload(`{"email":"jane@x.com"}`)}
	svc := newTestAuthService(provider, memStore)

	result, err := svc.Login(ctx, "jane@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, provider.token, result.Token)
	require.Equal(t, "jane@x.com", result.User.Email())
	require.Equal(t, "Jane", result.User["firstname"])
}

func TestLogin_UsersLookupFailureTolerated(t *testing.T) {
	provider := &fakeProvider{token: tokenWithPayload(`{"email":"jane@x.com"}`)}
	svc := newTestAuthService(provider, store.NewMemoryStore())

	result, err := svc.Login(context.Background(), "jane@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "jane@x.com", result.User.Email())
}

func TestLogin_ProviderRejectionPassedThrough(t *testing.T) {
	provider := &fakeProvider{err: &authprovider.RejectedError{Status: 401, Message: "bad credentials"}}
	svc := newTestAuthService(provider, store.NewMemoryStore())

	_, err := svc.Login(context.Background(), "jane@x.com", "wrong")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, 401, domainErr.HTTPStatus)
	require.Equal(t, "bad credentials", domainErr.Message)
}

func TestLogin_TokenWithoutEmail(t *testing.T) {
	provider := &fakeProvider{token: tokenWithPayload(`{"sub":"123"}`)}
	svc := newTestAuthService(provider, store.NewMemoryStore())

	_, err := svc.Login(context.Background(), "jane@x.com", "secret")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, "IDENTITY_MISSING", domainErr.Code)
}

func TestSignup_BuildsUserFromClaims(t *testing.T) {
	provider := &fakeProvider{token: tokenWithPayload(`{"email":"jane@x.com","firstname":"Jane","lastname":"Doe","role":"donor"}`)}
	svc := newTestAuthService(provider, store.NewMemoryStore())

	user, err := svc.Signup(context.Background(), authprovider.SignupParams{Email: "jane@x.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "jane@x.com", user.Email())
	require.Equal(t, "Jane", user["firstname"])
	require.Equal(t, "Doe", user["lastname"])
	require.Equal(t, "donor", user[domain.FieldRole])
}

func TestSignup_ProviderNotConfigured(t *testing.T) {
	provider := &fakeProvider{err: authprovider.ErrNotConfigured}
	svc := newTestAuthService(provider, store.NewMemoryStore())

	_, err := svc.Signup(context.Background(), authprovider.SignupParams{Email: "jane@x.com", Password: "secret"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, "AUTH_UNAVAILABLE", domainErr.Code)
}
