package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/stretchr/testify/require"
)

func TestUsuariosCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UsuariosService{Store: st, Auth: newAuthService(t, st)}

	t.Run("creates with normalized email", func(t *testing.T) {
		u, err := svc.Create(ctx, " Gestor@SIGED.test ", "Gestor Uno", "correcthorse", domain.RolGestor)
		require.NoError(t, err)
		require.Equal(t, "gestor@siged.test", u.Email)
		require.Equal(t, domain.RolGestor, u.Rol)
		require.NotEmpty(t, u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, "gestor@siged.test", "Gestor Dos", "correcthorse", domain.RolGestor)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown rol", func(t *testing.T) {
		_, err := svc.Create(ctx, "x@siged.test", "X", "correcthorse", "root")
		require.ErrorIs(t, err, ErrInvalidRol)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Create(ctx, "y@siged.test", "Y", "short", domain.RolGestor)
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "Z", "correcthorse", domain.RolGestor)
		require.ErrorIs(t, err, ErrMissingCampos)
	})
}

func TestUsuariosUpdateRol(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UsuariosService{Store: st, Auth: newAuthService(t, st)}

	actor := seedUsuario(t, st, "root@siged.test", "correcthorse", domain.RolSuperAdmin)
	target := seedUsuario(t, st, "gestor@siged.test", "correcthorse", domain.RolGestor)

	t.Run("promotes another account", func(t *testing.T) {
		require.NoError(t, svc.UpdateRol(ctx, actor.ID, target.ID, domain.RolAdmin))

		refreshed, err := st.Usuarios().GetUsuarioByID(ctx, target.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RolAdmin, refreshed.Rol)
	})

	t.Run("cannot change own rol", func(t *testing.T) {
		err := svc.UpdateRol(ctx, actor.ID, actor.ID, domain.RolGestor)
		require.ErrorIs(t, err, ErrSelfDemotion)
	})

	t.Run("unknown rol", func(t *testing.T) {
		err := svc.UpdateRol(ctx, actor.ID, target.ID, "root")
		require.ErrorIs(t, err, ErrInvalidRol)
	})

	t.Run("unknown usuario", func(t *testing.T) {
		err := svc.UpdateRol(ctx, actor.ID, "no-such-id", domain.RolAdmin)
		require.ErrorIs(t, err, ErrUsuarioNotFound)
	})
}

func TestUsuariosDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := newAuthService(t, st)
	svc := &UsuariosService{Store: st, Auth: auth}

	actor := seedUsuario(t, st, "root@siged.test", "correcthorse", domain.RolSuperAdmin)
	target := seedUsuario(t, st, "gestor@siged.test", "correcthorse", domain.RolGestor)

	pair, err := auth.Login(ctx, "gestor@siged.test", "correcthorse", "")
	require.NoError(t, err)

	t.Run("cannot delete own account", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, actor.ID, actor.ID), ErrSelfDemotion)
	})

	t.Run("deletion revokes sessions", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, actor.ID, target.ID))

		_, err := st.Usuarios().GetUsuarioByID(ctx, target.ID)
		require.Error(t, err)
		_, err = auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestBootstrapEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BootstrapService{
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	t.Run("no-op without credentials", func(t *testing.T) {
		require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))

		empty, err := st.Usuarios().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)
	})

	t.Run("seeds the first super_admin", func(t *testing.T) {
		require.NoError(t, svc.EnsureAdmin(ctx, "Root@SIGED.test", "Administrador", "correcthorse"))

		u, err := st.Usuarios().GetUsuarioByEmail(ctx, "root@siged.test")
		require.NoError(t, err)
		require.Equal(t, domain.RolSuperAdmin, u.Rol)
	})

	t.Run("no-op once accounts exist", func(t *testing.T) {
		require.NoError(t, svc.EnsureAdmin(ctx, "second@siged.test", "Otro", "correcthorse"))

		list, err := st.Usuarios().ListUsuarios(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}
