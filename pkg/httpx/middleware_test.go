package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signedToken(t *testing.T, signer *jwtx.Signer, rol string, ttl time.Duration) string {
	t.Helper()
	claims := jwtx.NewAccessClaims("u-1", "u@colegio.edu.co", rol, "Usuario", ttl, "siged", time.Now())
	tok, err := signer.Sign(claims)
	require.NoError(t, err)
	return tok
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mk("outer"), mk("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)
	verifier := signer.Verifier("siged")

	var gotUserID, gotRol string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromContext(r.Context())
		gotRol = httpx.RolFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(inner, httpx.AuthnMiddleware(verifier))

	t.Run("valid token injects identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/perfil", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, signer, jwtx.RolAdmin, time.Hour))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u-1", gotUserID)
		require.Equal(t, jwtx.RolAdmin, gotRol)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/perfil", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/perfil", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, signer, jwtx.RolAdmin, -time.Minute))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		tok := signedToken(t, signer, jwtx.RolAdmin, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/v1/perfil", nil)
		req.Header.Set("Authorization", "Bearer "+tok[:len(tok)-2]+"xx")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAnyRol(t *testing.T) {
	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)
	verifier := signer.Verifier("siged")

	h := httpx.Chain(okHandler(),
		httpx.AuthnMiddleware(verifier),
		httpx.RequireAnyRol(jwtx.RolAdmin, jwtx.RolSuperAdmin),
	)

	cases := []struct {
		rol  string
		want int
	}{
		{jwtx.RolSuperAdmin, http.StatusOK},
		{jwtx.RolAdmin, http.StatusOK},
		{jwtx.RolGestor, http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodDelete, "/v1/estudiantes/x", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, signer, tc.rol, time.Hour))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, tc.want, rec.Code, "rol %q", tc.rol)
	}
}

func TestRateLimitByIP(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := httpx.Chain(okHandler(), httpx.RateLimitByIP(cfg))

	req := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		r.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, req("10.0.0.1:1111"))
	require.Equal(t, http.StatusOK, req("10.0.0.1:1111"))

	third := req("10.0.0.1:1111")
	require.Equal(t, http.StatusTooManyRequests, third)

	// A different client is unaffected.
	require.Equal(t, http.StatusOK, req("10.0.0.2:2222"))
}
