package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

func makeCredential(t *testing.T, payload map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(raw) + ".signature-is-never-checked"
}

func TestDecodeUnverified_ExtractsClaims(t *testing.T) {
	credential := makeCredential(t, map[string]any{
		"email":     "jane@x.com",
		"role":      "donor",
		"firstname": "Jane",
		"lastname":  "Doe",
	})

	claims, err := DecodeUnverified(credential)
	require.NoError(t, err)
	require.Equal(t, "jane@x.com", claims.Email)
	require.Equal(t, "donor", claims.Role)
	require.Equal(t, "Jane", claims.Firstname)
	require.Equal(t, "Doe", claims.Lastname)
}

func TestDecodeUnverified_IgnoresSignature(t *testing.T) {
	// Two segments are enough: only the payload is consumed, the
	// signature segment is never looked at.
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"email":"a@b.com"}`))
	claims, err := DecodeUnverified("header." + payload)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", claims.Email)
}

func TestDecodeUnverified_NoSeparator(t *testing.T) {
	_, err := DecodeUnverified("not-a-token")
	requireCode(t, err, "MALFORMED_CREDENTIAL")
}

func TestDecodeUnverified_BadBase64(t *testing.T) {
	_, err := DecodeUnverified("header.%%%not-base64%%%.sig")
	requireCode(t, err, "MALFORMED_CREDENTIAL")
}

func TestDecodeUnverified_PayloadNotJSON(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("plain text"))
	_, err := DecodeUnverified("header." + payload + ".sig")
	requireCode(t, err, "MALFORMED_CREDENTIAL")
}

func TestDecodeUnverified_EmptyCredential(t *testing.T) {
	_, err := DecodeUnverified("")
	requireCode(t, err, "MALFORMED_CREDENTIAL")
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T", err)
	require.Equal(t, code, domainErr.Code)
}
