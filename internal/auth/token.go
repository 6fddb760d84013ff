package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// UnverifiedClaims is the identity payload extracted from a bearer
// credential. The name is deliberate: nothing in this service checks the
// credential's signature or expiry, so these claims are only as
// trustworthy as the issuer that signed the token upstream. Callers must
// never treat them as verified identity.
type UnverifiedClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

var segmentDecoder = jwt.NewParser()

// DecodeUnverified extracts the payload claims from a dot-delimited
// credential without verifying it. Trust in the credential's
// authenticity is delegated entirely to the issuing authority; this
// function only needs the payload segment.
func DecodeUnverified(credential string) (*UnverifiedClaims, error) {
	parts := strings.Split(credential, ".")
	if len(parts) < 2 {
		return nil, apperrors.NewMalformedCredential(fmt.Errorf("credential has %d segment(s)", len(parts)))
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil, apperrors.NewMalformedCredential(fmt.Errorf("decode payload segment: %w", err))
	}

	var claims UnverifiedClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, apperrors.NewMalformedCredential(fmt.Errorf("parse payload: %w", err))
	}
	return &claims, nil
}
