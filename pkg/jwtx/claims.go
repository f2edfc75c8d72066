package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the dashboard session flows.
// Short access tokens, week-long refresh tokens. Override per-service.
const (
	DefaultAccessTokenTTL  = 1 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Dashboard roles carried in the "rol" claim. These are the only three
// roles the platform knows about.
const (
	RolSuperAdmin = "super_admin"
	RolAdmin      = "admin"
	RolGestor     = "gestor"
)

// Claims are the access-token claims shared between the token-issuing side
// and the session SDK. Keep changes additive so older tokens still decode.
type Claims struct {
	jwt.RegisteredClaims

	/* Custom identity fields */

	// Email of the authenticated user
	Email string `json:"email,omitempty"`

	// Rol is the dashboard role (super_admin, admin, gestor)
	Rol string `json:"rol,omitempty"`

	// Nombre is the display name for the user
	Nombre string `json:"nombre,omitempty"`

	// LegacyID mirrors the subject under the "id" key. Tokens minted by the
	// previous backend carried the user id there instead of "sub".
	LegacyID string `json:"id,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(
	subject, email, rol, nombre string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    email,
		Rol:      rol,
		Nombre:   nombre,
		LegacyID: subject,
	}
}

// UserID returns the user id, preferring "sub" and falling back to the
// legacy "id" claim.
func (c *Claims) UserID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.LegacyID
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
