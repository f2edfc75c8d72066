package service

import (
	"context"
	"errors"
	"strings"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/cryptox"
	"github.com/colegiosoft/siged/pkg/idx"
)

var (
	ErrInvalidRol    = errors.New("invalid_rol")
	ErrSelfDemotion  = errors.New("self_demotion")
	ErrMissingCampos = errors.New("missing_fields")
)

// UsuariosService is the super_admin account administration surface.
type UsuariosService struct {
	Store store.Store
	Auth  *AuthService
}

func (s *UsuariosService) List(ctx context.Context) ([]domain.Usuario, error) {
	return s.Store.Usuarios().ListUsuarios(ctx)
}

func (s *UsuariosService) Create(ctx context.Context, email, nombre, password, rol string) (domain.Usuario, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nombre = strings.TrimSpace(nombre)
	if email == "" || nombre == "" {
		return domain.Usuario{}, ErrMissingCampos
	}
	if len(password) < minPasswordLength {
		return domain.Usuario{}, ErrWeakPassword
	}
	if !domain.ValidRol(rol) {
		return domain.Usuario{}, ErrInvalidRol
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Usuario{}, err
	}

	u := domain.Usuario{
		ID:           idx.New().String(),
		Email:        email,
		Nombre:       nombre,
		PasswordHash: hash,
		Rol:          rol,
	}
	if err := s.Store.Usuarios().CreateUsuario(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Usuario{}, ErrEmailTaken
		}
		return domain.Usuario{}, err
	}
	return s.Store.Usuarios().GetUsuarioByID(ctx, u.ID)
}

// UpdateRol changes an account's role. The acting super_admin cannot change
// its own role; that prevents locking every super_admin out.
func (s *UsuariosService) UpdateRol(ctx context.Context, actorID, usuarioID, rol string) error {
	if !domain.ValidRol(rol) {
		return ErrInvalidRol
	}
	if actorID == usuarioID {
		return ErrSelfDemotion
	}
	err := s.Store.Usuarios().UpdateRol(ctx, usuarioID, rol)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUsuarioNotFound
	}
	return err
}

// Delete removes an account and revokes its sessions.
func (s *UsuariosService) Delete(ctx context.Context, actorID, usuarioID string) error {
	if actorID == usuarioID {
		return ErrSelfDemotion
	}
	if s.Auth != nil {
		if err := s.Auth.RevokeAll(ctx, usuarioID); err != nil {
			return err
		}
	}
	err := s.Store.Usuarios().DeleteUsuario(ctx, usuarioID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUsuarioNotFound
	}
	return err
}
