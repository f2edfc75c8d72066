package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/cryptox"
	"github.com/colegiosoft/siged/pkg/idx"
)

// BootstrapService seeds the first super_admin account on an empty
// database. With no account there is no way to log in and mint the rest.
type BootstrapService struct {
	Store  store.Store
	Logger *slog.Logger
}

// EnsureAdmin creates the seed account when the usuarios table is empty.
// No-op (nil) when accounts already exist or when the seed credentials are
// not configured.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, nombre, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	empty, err := s.Store.Usuarios().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	u := domain.Usuario{
		ID:           idx.New().String(),
		Email:        email,
		Nombre:       nombre,
		PasswordHash: hash,
		Rol:          domain.RolSuperAdmin,
	}
	if err := s.Store.Usuarios().CreateUsuario(ctx, u); err != nil {
		return err
	}

	s.Logger.Info("seed super_admin created", slog.String("email", email))
	return nil
}
