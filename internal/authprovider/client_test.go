package authprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bloodbound-service/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AuthProviderConfig{BaseURL: baseURL, TimeoutSeconds: 2})
}

func TestLogin_ReturnsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jane@x.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).Login(context.Background(), "jane@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "issued-token", token)
}

func TestLogin_RejectionCarriesProviderMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Login(context.Background(), "jane@x.com", "wrong")
	require.Error(t, err)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, http.StatusUnauthorized, rejected.Status)
	require.Equal(t, "bad credentials", rejected.Message)
}

func TestLogin_TokenlessSuccessIsRejection(t *testing.T) {
	// Some provider failures come back as 200 with no token; treat them
	// the same as an explicit rejection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "verification pending"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Login(context.Background(), "jane@x.com", "secret")
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
}

func TestSignup_ForwardsAllFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signup", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Jane", body["firstname"])
		require.Equal(t, "donor", body["role"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).Signup(context.Background(), SignupParams{
		Email: "jane@x.com", Password: "secret", Firstname: "Jane", Lastname: "Doe", Role: "donor",
	})
	require.NoError(t, err)
	require.Equal(t, "issued-token", token)
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := newTestClient("").Login(context.Background(), "jane@x.com", "secret")
	require.ErrorIs(t, err, ErrNotConfigured)
}
