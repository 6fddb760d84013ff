package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/auth"
	"github.com/spec-kit/bloodbound-service/internal/authprovider"
	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/repository"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// Provider abstracts the external authentication service.
type Provider interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, params authprovider.SignupParams) (string, error)
}

// LoginResult bundles the provider-issued token with the caller's
// account data.
type LoginResult struct {
	Token string
	User  domain.Profile
}

// AuthService proxies login and signup to the external authentication
// provider. The provider owns passwords, OTP delivery, and credential
// issuance; this service only forwards requests, decodes the returned
// credential, and enriches the response with stored account data.
type AuthService struct {
	provider Provider
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Provider    Provider
	ProfileRepo repository.ProfileRepository
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		provider: deps.Provider,
		profiles: deps.ProfileRepo,
		logger:   deps.Logger,
	}
}

// Login authenticates through the provider and returns the issued token
// plus the caller's record from the users collection. A failed users
// lookup is tolerated: the token is still valid, so the response just
// carries the claims alone.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	token, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return nil, mapProviderError(err, http.StatusUnauthorized, "login failed")
	}

	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, apperrors.NewIdentityMissing()
	}

	user := domain.Profile{domain.FieldEmail: claims.Email}
	if stored, findErr := s.profiles.FindByEmail(ctx, domain.CollectionUsers, claims.Email); findErr == nil {
		user = stored.Profile.Clone()
		user[domain.FieldEmail] = claims.Email
	} else {
		s.logger.Warn("could not enrich login response from users collection",
			zap.String("email", claims.Email))
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Signup registers an account through the provider and returns the user
// data decoded from the issued credential. The provider does not return
// a user object of its own.
func (s *AuthService) Signup(ctx context.Context, params authprovider.SignupParams) (domain.Profile, error) {
	token, err := s.provider.Signup(ctx, params)
	if err != nil {
		return nil, mapProviderError(err, http.StatusBadRequest, "signup failed")
	}

	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		return nil, err
	}

	return domain.Profile{
		domain.FieldEmail: claims.Email,
		"firstname":       claims.Firstname,
		"lastname":        claims.Lastname,
		domain.FieldRole:  claims.Role,
	}, nil
}

func mapProviderError(err error, status int, fallback string) error {
	var rejected *authprovider.RejectedError
	if errors.As(err, &rejected) {
		message := rejected.Message
		if message == "" {
			message = fallback
		}
		return apperrors.NewDomainError("AUTH_REJECTED", message, status, nil)
	}
	if errors.Is(err, authprovider.ErrNotConfigured) {
		return apperrors.NewDomainError("AUTH_UNAVAILABLE", "authentication service not configured", http.StatusServiceUnavailable, nil)
	}
	return apperrors.NewInternalError(err)
}
