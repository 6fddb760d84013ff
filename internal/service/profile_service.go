package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/events"
	"github.com/spec-kit/bloodbound-service/internal/repository"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// UpsertResult reports the outcome of a profile upsert.
type UpsertResult struct {
	Profile domain.Profile
	Created bool
}

// ProfileService implements the find-or-create profile flow: resolve
// the declared role to a collection, locate an existing record by email,
// and either create a fresh profile or merge the caller's fields into
// the stored one.
type ProfileService struct {
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	upsertLock *keyedLock
}

// ProfileDependencies encapsulates requirements for the profile service.
type ProfileDependencies struct {
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	return &ProfileService{
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		upsertLock: newKeyedLock(),
	}
}

// Upsert creates or updates the profile for email in the collection the
// declared role routes to. Caller fields are stored verbatim, shallow,
// last-write-wins; no per-field validation happens here. Exactly one
// write is issued per call, and a failed write is fatal with no retry.
func (s *ProfileService) Upsert(ctx context.Context, declaredRole, email string, callerFields map[string]any) (*UpsertResult, error) {
	role, err := domain.ParseRole(declaredRole)
	if err != nil {
		return nil, err
	}
	collection, err := domain.ResolveCollection(declaredRole)
	if err != nil {
		return nil, err
	}

	// Serialize same-identity upserts within this process. Two
	// concurrent requests for a new email would otherwise both miss the
	// lookup and both insert.
	unlock := s.upsertLock.Lock(string(collection) + "\x00" + strings.ToLower(email))
	defer unlock()

	existing, err := s.profiles.FindByEmail(ctx, collection, email)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.MapError(err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if existing == nil {
		return s.create(ctx, collection, role, email, callerFields, now)
	}
	return s.merge(ctx, collection, role, existing, callerFields, now)
}

func (s *ProfileService) create(ctx context.Context, collection domain.Collection, role domain.Role, email string, callerFields map[string]any, now string) (*UpsertResult, error) {
	profile := domain.Profile{
		domain.FieldEmail: email,
		domain.FieldRole:  string(role),
	}
	for k, v := range callerFields {
		profile[k] = v
	}
	profile[domain.FieldCreatedAt] = now
	profile[domain.FieldUpdatedAt] = now
	if _, supplied := callerFields[domain.FieldAvailability]; !supplied {
		profile[domain.FieldAvailability] = defaultAvailability(role)
	}

	if err := s.profiles.Insert(ctx, collection, profile); err != nil {
		s.logger.Error("profile insert failed",
			zap.String("collection", string(collection)),
			zap.Error(err))
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.publish(ctx, events.EventProfileCreated, collection, email, events.ProfileCreatedPayload{
		Role:         role,
		Availability: availabilityOf(profile),
	})

	return &UpsertResult{Profile: profile, Created: true}, nil
}

func (s *ProfileService) merge(ctx context.Context, collection domain.Collection, role domain.Role, existing *repository.StoredProfile, callerFields map[string]any, now string) (*UpsertResult, error) {
	merged := existing.Profile.Clone()
	updated := make([]string, 0, len(callerFields))
	for k, v := range callerFields {
		merged[k] = v
		updated = append(updated, k)
	}
	merged[domain.FieldUpdatedAt] = now

	if err := s.profiles.Update(ctx, collection, existing.ID, merged); err != nil {
		s.logger.Error("profile update failed",
			zap.String("collection", string(collection)),
			zap.String("record_id", existing.ID),
			zap.Error(err))
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.publish(ctx, events.EventProfileUpdated, collection, merged.Email(), events.ProfileUpdatedPayload{
		Role:          role,
		UpdatedFields: updated,
	})

	return &UpsertResult{Profile: merged, Created: false}, nil
}

func (s *ProfileService) publish(ctx context.Context, eventType events.EventType, collection domain.Collection, email string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Collection: collection,
		Email:      email,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
}

func defaultAvailability(role domain.Role) string {
	if role == domain.RoleDonor {
		return "available"
	}
	return ""
}

func availabilityOf(profile domain.Profile) string {
	availability, _ := profile[domain.FieldAvailability].(string)
	return availability
}
