package jwtx_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// rawToken builds a three-segment token with the given payload and a junk
// signature. Decode never checks the signature, so this is enough.
func rawToken(t *testing.T, payload map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"EdDSA","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".c2ln"
}

func TestDecode(t *testing.T) {
	t.Run("extracts identity claims", func(t *testing.T) {
		tok := rawToken(t, map[string]any{
			"sub":    "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			"email":  "rectoria@colegio.edu.co",
			"rol":    "admin",
			"nombre": "Marta Cano",
			"exp":    1900000000,
			"iat":    1890000000,
		})

		claims, err := jwtx.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", claims.UserID())
		require.Equal(t, "rectoria@colegio.edu.co", claims.Email)
		require.Equal(t, "admin", claims.Rol)
		require.Equal(t, "Marta Cano", claims.Nombre)
		require.Equal(t, int64(1900000000), claims.ExpiresAt.Unix())
		require.Equal(t, int64(1890000000), claims.IssuedAt.Unix())
	})

	t.Run("legacy id claim", func(t *testing.T) {
		tok := rawToken(t, map[string]any{"id": "u-42", "rol": "gestor"})

		claims, err := jwtx.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, "u-42", claims.UserID())
	})

	t.Run("padded payload segment", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
		payload := base64.URLEncoding.EncodeToString([]byte(`{"rol":"admin"}`))
		tok := header + "." + payload + ".x"

		claims, err := jwtx.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, "admin", claims.Rol)
	})

	t.Run("wrong segment count", func(t *testing.T) {
		for _, tok := range []string{
			"",
			"justone",
			"two.segments",
			"too.many.dots.here",
			"....",
		} {
			_, err := jwtx.Decode(tok)
			require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", tok)
		}
	})

	t.Run("invalid base64 payload", func(t *testing.T) {
		_, err := jwtx.Decode("aGVhZA.!!!not-base64!!!.c2ln")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("payload is not json object", func(t *testing.T) {
		bad := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		_, err := jwtx.Decode("aGVhZA." + bad + ".c2ln")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("does not verify signature", func(t *testing.T) {
		tok := rawToken(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix()})

		// Tamper with the signature segment; Decode must not care.
		claims, err := jwtx.Decode(tok[:len(tok)-4] + "AAAA")
		require.NoError(t, err)
		require.Equal(t, "u-1", claims.UserID())
	})
}
