package jwtx_test

import (
	"testing"
	"time"

	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	now := time.Now()
	claims := jwtx.NewAccessClaims(
		"01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"gestor@colegio.edu.co",
		jwtx.RolGestor,
		"Luis Prada",
		time.Hour,
		"siged",
		now,
	)

	tok, err := signer.Sign(claims)
	require.NoError(t, err)

	t.Run("round trip through verifier", func(t *testing.T) {
		got, err := signer.Verifier("siged").Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", got.UserID())
		require.Equal(t, jwtx.RolGestor, got.Rol)
		require.Equal(t, "Luis Prada", got.Nombre)
	})

	t.Run("signed token decodes without verification", func(t *testing.T) {
		got, err := jwtx.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, claims.ExpiresAt.Unix(), got.ExpiresAt.Unix())
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		_, err := signer.Verifier("otro-servicio").Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("foreign key rejected", func(t *testing.T) {
		other, err := jwtx.NewEphemeralSigner()
		require.NoError(t, err)

		_, err = other.Verifier("siged").Verify(tok)
		require.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		stale := jwtx.NewAccessClaims("u-1", "", jwtx.RolAdmin, "", -time.Minute, "siged", now)
		staleTok, err := signer.Sign(stale)
		require.NoError(t, err)

		_, err = signer.Verifier("siged").Verify(staleTok)
		require.Error(t, err)
	})
}
