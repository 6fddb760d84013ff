package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/store"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

const userListCacheKey = "bloodbound:users:list"

// UserSummary is the admin-facing view of one account record.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// UserService serves the admin listing of the users collection. The
// listing is cached in Redis with a short TTL; the upsert path never
// reads this cache, its reads always hit the store directly.
type UserService struct {
	store    store.RecordStore
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewUserService builds the service. A nil cache client disables caching.
func NewUserService(recordStore store.RecordStore, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{store: recordStore, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns every account in the users collection.
func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	records, err := s.store.FetchAll(ctx, string(domain.CollectionUsers))
	if err != nil {
		return nil, apperrors.NewDomainError("FETCH_FAILED", "error fetching data", 400, nil)
	}

	users := make([]UserSummary, 0, len(records))
	for _, record := range records {
		profile := domain.Profile(record.Fields)
		users = append(users, UserSummary{
			ID:        record.ID,
			Email:     profile.Email(),
			Role:      stringField(profile, domain.FieldRole),
			Firstname: stringField(profile, "firstname"),
			Lastname:  stringField(profile, "lastname"),
		})
	}

	s.toCache(ctx, users)
	return users, nil
}

func (s *UserService) fromCache(ctx context.Context) ([]UserSummary, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, userListCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var users []UserSummary
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false
	}
	return users, true
}

func (s *UserService) toCache(ctx context.Context, users []UserSummary) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userListCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("user list cache write failed", zap.Error(err))
	}
}

func stringField(profile domain.Profile, key string) string {
	val, _ := profile[key].(string)
	return val
}
