package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/bloodbound-service/internal/config"
)

// ErrNotConfigured is returned when no provider base URL is set.
var ErrNotConfigured = errors.New("auth provider not configured")

// RejectedError carries the provider's own failure message so the HTTP
// boundary can pass it through to the caller.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth provider rejected request (status %d)", e.Status)
}

// Client calls the external authentication service. This service never
// issues or verifies credentials itself; it only forwards login/signup
// requests and hands back the credential the provider minted.
type Client struct {
	baseURL string
	client  *http.Client
}

// SignupParams carries the fields forwarded on signup.
type SignupParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Role      string `json:"role,omitempty"`
}

type loginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// NewClient builds a provider client.
func NewClient(cfg config.AuthProviderConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.post(ctx, "/login", loginParams{Email: email, Password: password})
}

// Signup registers a new account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, params SignupParams) (string, error) {
	return c.post(ctx, "/signup", params)
}

func (c *Client) post(ctx context.Context, path string, body any) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var result tokenResponse
	_ = json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.Token == "" {
		return "", &RejectedError{Status: resp.StatusCode, Message: result.Message}
	}
	return result.Token, nil
}
