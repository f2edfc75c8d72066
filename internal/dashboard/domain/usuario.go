package domain

import "time"

// Dashboard roles. Stored on the usuario row and carried in the "rol" claim.
const (
	RolSuperAdmin = "super_admin"
	RolAdmin      = "admin"
	RolGestor     = "gestor"
)

// ValidRol reports whether rol is one of the known dashboard roles.
func ValidRol(rol string) bool {
	switch rol {
	case RolSuperAdmin, RolAdmin, RolGestor:
		return true
	}
	return false
}

type Usuario struct {
	ID           string
	Email        string
	Nombre       string
	PasswordHash string // argon2 encoded
	Rol          string
	MFAEnabled   *time.Time // when the TOTP second factor was activated (nullable)
	MFASecret    *string    // TOTP secret, base32 (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MFAActive reports whether login must demand a TOTP code for this account.
func (u Usuario) MFAActive() bool {
	return u.MFAEnabled != nil && u.MFASecret != nil && *u.MFASecret != ""
}
