package service

import (
	"context"
	"errors"
	"strings"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/cryptox"
)

var (
	ErrEmailTaken      = errors.New("email_taken")
	ErrUsuarioNotFound = errors.New("usuario_not_found")
	ErrWeakPassword    = errors.New("weak_password")
)

const minPasswordLength = 8

// PerfilService backs the profile endpoints: the authenticated account
// reading and editing its own record.
type PerfilService struct {
	Store store.Store
	Auth  *AuthService // for bulk revocation on password change
}

// PerfilUpdate is a partial update; empty fields are left untouched.
type PerfilUpdate struct {
	Nombre   string
	Email    string
	Password string
}

func (s *PerfilService) Get(ctx context.Context, usuarioID string) (domain.Usuario, error) {
	u, err := s.Store.Usuarios().GetUsuarioByID(ctx, usuarioID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Usuario{}, ErrUsuarioNotFound
	}
	return u, err
}

// Update applies the patch and returns the refreshed record. A password
// change revokes every outstanding refresh token of the account.
func (s *PerfilService) Update(ctx context.Context, usuarioID string, patch PerfilUpdate) (domain.Usuario, error) {
	u, err := s.Get(ctx, usuarioID)
	if err != nil {
		return domain.Usuario{}, err
	}

	nombre := strings.TrimSpace(patch.Nombre)
	if nombre == "" {
		nombre = u.Nombre
	}
	email := strings.ToLower(strings.TrimSpace(patch.Email))
	if email == "" {
		email = u.Email
	}

	if nombre != u.Nombre || email != u.Email {
		err := s.Store.Usuarios().UpdatePerfil(ctx, usuarioID, nombre, email)
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Usuario{}, ErrEmailTaken
		}
		if err != nil {
			return domain.Usuario{}, err
		}
	}

	if patch.Password != "" {
		if len(patch.Password) < minPasswordLength {
			return domain.Usuario{}, ErrWeakPassword
		}
		hash, err := cryptox.HashPassword(patch.Password)
		if err != nil {
			return domain.Usuario{}, err
		}
		if err := s.Store.Usuarios().UpdatePasswordHash(ctx, usuarioID, hash); err != nil {
			return domain.Usuario{}, err
		}
		if s.Auth != nil {
			if err := s.Auth.RevokeAll(ctx, usuarioID); err != nil {
				return domain.Usuario{}, err
			}
		}
	}

	return s.Get(ctx, usuarioID)
}
