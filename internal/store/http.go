package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/config"
)

// HTTPStore talks to the hosted record-store service over its REST API.
// Every call is bounded by the configured timeout; the store never gets
// to hang a request indefinitely.
type HTTPStore struct {
	baseURL string
	sdkKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPStore builds a client for the hosted record store.
func NewHTTPStore(cfg config.RecordStoreConfig, logger *zap.Logger) *HTTPStore {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		sdkKey:  cfg.SDKKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type fetchAllResponse struct {
	Records []Record `json:"records"`
}

type insertRequest struct {
	Data []map[string]any `json:"data"`
}

type insertResponse struct {
	Records []Record `json:"records"`
}

type updateRequest struct {
	Fields map[string]any `json:"fields"`
}

// FetchAll lists every record in the collection.
func (s *HTTPStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	var out fetchAllResponse
	if err := s.do(ctx, http.MethodGet, s.collectionURL(collection), nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// Insert creates a single record and returns it with its assigned id.
func (s *HTTPStore) Insert(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	var out insertResponse
	if err := s.do(ctx, http.MethodPost, s.collectionURL(collection), insertRequest{Data: []map[string]any{fields}}, &out); err != nil {
		return Record{}, err
	}
	if len(out.Records) == 0 {
		// Some store versions omit the echo; the fields are authoritative either way.
		return Record{Fields: fields}, nil
	}
	return out.Records[0], nil
}

// Update replaces the field map of an existing record.
func (s *HTTPStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	endpoint := s.collectionURL(collection) + "/" + url.PathEscape(id)
	return s.do(ctx, http.MethodPatch, endpoint, updateRequest{Fields: fields}, nil)
}

// Ping verifies the store endpoint is reachable.
func (s *HTTPStore) Ping(ctx context.Context) error {
	if s.baseURL == "" {
		return fmt.Errorf("record store base URL not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.sdkKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("record store unhealthy: %s", resp.Status)
	}
	return nil
}

func (s *HTTPStore) collectionURL(collection string) string {
	return s.baseURL + "/tables/" + url.PathEscape(collection) + "/records"
}

func (s *HTTPStore) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.sdkKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Warn("record store call failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("record store %s %s: status %d: %s", method, endpoint, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
