package service

import (
	"context"
	"testing"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestPerfilUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := newAuthService(t, st)
	svc := &PerfilService{Store: st, Auth: auth}

	u := seedUsuario(t, st, "gestor@siged.test", "correcthorse", domain.RolGestor)

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, u.ID, PerfilUpdate{Nombre: "María Fernanda"})
		require.NoError(t, err)
		require.Equal(t, "María Fernanda", updated.Nombre)
		require.Equal(t, u.Email, updated.Email)
	})

	t.Run("email is normalized", func(t *testing.T) {
		updated, err := svc.Update(ctx, u.ID, PerfilUpdate{Email: " Nueva@SIGED.test "})
		require.NoError(t, err)
		require.Equal(t, "nueva@siged.test", updated.Email)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		seedUsuario(t, st, "otro@siged.test", "correcthorse", domain.RolGestor)
		_, err := svc.Update(ctx, u.ID, PerfilUpdate{Email: "otro@siged.test"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown usuario", func(t *testing.T) {
		_, err := svc.Update(ctx, "no-such-id", PerfilUpdate{Nombre: "X"})
		require.ErrorIs(t, err, ErrUsuarioNotFound)
	})
}

func TestPerfilPasswordChangeRevokesSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := newAuthService(t, st)
	svc := &PerfilService{Store: st, Auth: auth}

	u := seedUsuario(t, st, "admin@siged.test", "correcthorse", domain.RolAdmin)

	pair, err := auth.Login(ctx, "admin@siged.test", "correcthorse", "")
	require.NoError(t, err)

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, u.ID, PerfilUpdate{Password: "short"})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	_, err = svc.Update(ctx, u.ID, PerfilUpdate{Password: "battery-staple"})
	require.NoError(t, err)

	// Old sessions die with the old password.
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = auth.Login(ctx, "admin@siged.test", "correcthorse", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "admin@siged.test", "battery-staple", "")
	require.NoError(t, err)
}

func TestMFAEnrollActivateDeactivate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MFAService{Store: st, Issuer: "siged-test"}

	u := seedUsuario(t, st, "mfa@siged.test", "correcthorse", domain.RolAdmin)

	enrollment, err := svc.Enroll(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.OTPAuthURL, "otpauth://")

	t.Run("activation requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, svc.Activate(ctx, u.ID, "000000"), ErrMFABadCode)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Activate(ctx, u.ID, code))

		refreshed, err := st.Usuarios().GetUsuarioByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, refreshed.MFAActive())
	})

	t.Run("re-enrollment blocked while active", func(t *testing.T) {
		_, err := svc.Enroll(ctx, u.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyActive)
	})

	t.Run("deactivation requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, svc.Deactivate(ctx, u.ID, "000000"), ErrMFABadCode)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Deactivate(ctx, u.ID, code))

		refreshed, err := st.Usuarios().GetUsuarioByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, refreshed.MFAActive())
	})

	t.Run("deactivation without enrollment", func(t *testing.T) {
		require.ErrorIs(t, svc.Deactivate(ctx, u.ID, "000000"), ErrMFANotEnrolled)
	})
}
