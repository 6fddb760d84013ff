package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/store"
)

// ErrProfileNotFound is returned when no record in the collection
// matches the email.
var ErrProfileNotFound = errors.New("profile not found")

// StoredProfile couples a profile with its record identifier in the store.
type StoredProfile struct {
	ID      string
	Profile domain.Profile
}

// ProfileRepository locates and persists profile records. Lookups are
// read-only; writes go through Insert/Update only.
type ProfileRepository interface {
	FindByEmail(ctx context.Context, collection domain.Collection, email string) (*StoredProfile, error)
	Insert(ctx context.Context, collection domain.Collection, profile domain.Profile) error
	Update(ctx context.Context, collection domain.Collection, id string, profile domain.Profile) error
}

type profileRepository struct {
	store  store.RecordStore
	logger *zap.Logger
}

// NewProfileRepository returns a record-store-backed implementation.
func NewProfileRepository(recordStore store.RecordStore, logger *zap.Logger) ProfileRepository {
	return &profileRepository{store: recordStore, logger: logger}
}

// FindByEmail lists the whole collection and scans for the first record
// whose email matches case-insensitively. The store's listing API has no
// server-side filtering, so the scan happens here; first match wins if
// the collection ever holds duplicates.
//
// A failed fetch is reported as ErrProfileNotFound rather than
// propagated: when the store is flaky the upsert path falls through to
// create instead of failing the request. The trade is availability over
// strict uniqueness during outages.
func (r *profileRepository) FindByEmail(ctx context.Context, collection domain.Collection, email string) (*StoredProfile, error) {
	records, err := r.store.FetchAll(ctx, string(collection))
	if err != nil {
		r.logger.Warn("record store fetch failed; treating as not found",
			zap.String("collection", string(collection)),
			zap.Error(err))
		return nil, ErrProfileNotFound
	}

	for _, record := range records {
		profile := domain.Profile(record.Fields)
		if profile.MatchesEmail(email) {
			return &StoredProfile{ID: record.ID, Profile: profile}, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *profileRepository) Insert(ctx context.Context, collection domain.Collection, profile domain.Profile) error {
	_, err := r.store.Insert(ctx, string(collection), profile)
	return err
}

func (r *profileRepository) Update(ctx context.Context, collection domain.Collection, id string, profile domain.Profile) error {
	return r.store.Update(ctx, string(collection), id, profile)
}
