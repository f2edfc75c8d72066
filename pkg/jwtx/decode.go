package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Decode extracts the claims from a compact JWT WITHOUT verifying the
// signature. It is a claims-extraction utility for the client side of the
// session lifecycle (deciding when to warn, when to redirect), not a
// security boundary. Anything that grants access must go through Verifier.
//
// Returns ErrMalformed for anything that is not a three-segment token with
// a decodable JSON payload. Never panics.
func Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, ErrMalformed
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformed
	}

	return &claims, nil
}

// decodeSegment handles both raw (unpadded) and padded base64url payloads.
// Spec-compliant issuers emit unpadded segments but some legacy backends
// pad them, so try raw first and fall back.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(seg)
}
