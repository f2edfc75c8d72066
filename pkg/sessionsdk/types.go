// Package sessionsdk implements the client side of the dashboard session
// lifecycle: token acquisition, persisted session state, proactive
// expiration monitoring, and render gating. It is the piece a Go front end
// (desktop shell, TUI, gateway) embeds to stay logged in against the SIGED
// backend.
package sessionsdk

import "github.com/colegiosoft/siged/pkg/jwtx"

// User is the cached projection of the access token's identity claims.
type User struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}

// State is an immutable snapshot of the session. The Manager replaces the
// whole snapshot on every mutation, so a reader never observes a session
// that is half logged in.
type State struct {
	User            *User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool

	// Loading is true while InitializeAuth is rehydrating the persisted
	// session. Guards must not redirect during this window.
	Loading bool

	// Err is the last operation's human-readable failure, "" when clear.
	// Expiry is lifecycle, not failure, and never sets this.
	Err string
}

// userFromClaims derives the cached user projection from decoded claims.
func userFromClaims(c *jwtx.Claims) *User {
	return &User{
		ID:     c.UserID(),
		Nombre: c.Nombre,
		Email:  c.Email,
		Rol:    c.Rol,
	}
}
