package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/config"
)

func newTestHTTPStore(baseURL string) *HTTPStore {
	return NewHTTPStore(config.RecordStoreConfig{
		BaseURL:        baseURL,
		SDKKey:         "test-key",
		TimeoutSeconds: 2,
	}, zap.NewNop())
}

func TestHTTPStore_FetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/tables/donors/records", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(fetchAllResponse{Records: []Record{
			{ID: "rec-1", Fields: map[string]any{"email": "a@b.com"}},
		}})
	}))
	defer server.Close()

	records, err := newTestHTTPStore(server.URL).FetchAll(context.Background(), "donors")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "rec-1", records[0].ID)
	require.Equal(t, "a@b.com", records[0].Fields["email"])
}

func TestHTTPStore_InsertEchoesRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req insertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Data, 1)

		_ = json.NewEncoder(w).Encode(insertResponse{Records: []Record{
			{ID: "rec-9", Fields: req.Data[0]},
		}})
	}))
	defer server.Close()

	record, err := newTestHTTPStore(server.URL).Insert(context.Background(), "donors", map[string]any{"email": "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, "rec-9", record.ID)
	require.Equal(t, "a@b.com", record.Fields["email"])
}

func TestHTTPStore_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/tables/donors/records/rec-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestHTTPStore(server.URL).Update(context.Background(), "donors", "rec-1", map[string]any{"city": "Abuja"})
	require.NoError(t, err)
}

func TestHTTPStore_ErrorStatusSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestHTTPStore(server.URL).FetchAll(context.Background(), "donors")
	require.Error(t, err)
}

func TestHTTPStore_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestHTTPStore(server.URL).FetchAll(ctx, "donors")
	require.Error(t, err)
}
