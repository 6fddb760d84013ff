package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/store"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

func TestUserList_MapsRecords(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	record, err := memStore.Insert(ctx, string(domain.CollectionUsers), map[string]any{
		"email":     "jane@x.com",
		"role":      "donor",
		"firstname": "Jane",
		"lastname":  "Doe",
		"phone":     "+1234567890",
	})
	require.NoError(t, err)

	svc := NewUserService(memStore, nil, 0, zap.NewNop())
	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, UserSummary{
		ID:        record.ID,
		Email:     "jane@x.com",
		Role:      "donor",
		Firstname: "Jane",
		Lastname:  "Doe",
	}, users[0])
}

func TestUserList_EmptyCollection(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore(), nil, 0, zap.NewNop())
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

type userFetchFailStore struct {
	store.RecordStore
}

func (userFetchFailStore) FetchAll(ctx context.Context, collection string) ([]store.Record, error) {
	return nil, errors.New("store unavailable")
}

func TestUserList_FetchFailure(t *testing.T) {
	svc := NewUserService(userFetchFailStore{}, nil, 0, zap.NewNop())
	_, err := svc.List(context.Background())
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, 400, domainErr.HTTPStatus)
}
