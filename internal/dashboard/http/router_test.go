package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/internal/dashboard/store/drivers/sqlite"
	"github.com/colegiosoft/siged/pkg/cryptox"
	"github.com/colegiosoft/siged/pkg/idx"
	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	server *httptest.Server
	store  *sqlite.Store
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "siged_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auth := &service.AuthService{
		Signer:     signer,
		Store:      st,
		Issuer:     "siged-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}

	router := NewRouter(signer, "siged-test", "test", false, st, logger)
	router.AuthService = auth
	router.PerfilService = &service.PerfilService{Store: st, Auth: auth}
	router.MFAService = &service.MFAService{Store: st, Issuer: "siged-test"}
	router.UsuariosService = &service.UsuariosService{Store: st, Auth: auth}
	router.RegistrosService = &service.RegistrosService{Store: st}
	router.DocumentosService = &service.DocumentosService{Store: st, Dir: t.TempDir()}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &routerFixture{server: server, store: st}
}

func (f *routerFixture) seedUsuario(t *testing.T, email, password, rol string) domain.Usuario {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.Usuario{
		ID:           idx.New().String(),
		Email:        email,
		Nombre:       "Cuenta de Prueba",
		PasswordHash: hash,
		Rol:          rol,
	}
	require.NoError(t, f.store.Usuarios().CreateUsuario(context.Background(), u))
	return u
}

func (f *routerFixture) postJSON(t *testing.T, path, bearer string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (f *routerFixture) login(t *testing.T, email, password string) (tokens map[string]any, cookie *http.Cookie) {
	t.Helper()

	resp := f.postJSON(t, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	return tokens, cookie
}

func TestLoginEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	f.seedUsuario(t, "admin@siged.test", "correcthorse", domain.RolAdmin)

	t.Run("success sets session cookie", func(t *testing.T) {
		tokens, cookie := f.login(t, "admin@siged.test", "correcthorse")

		require.NotEmpty(t, tokens["access_token"])
		require.NotEmpty(t, tokens["refresh_token"])
		require.Equal(t, "Bearer", tokens["token_type"])
		require.EqualValues(t, 3600, tokens["expires_in"])

		require.NotNil(t, cookie)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, tokens["refresh_token"], cookie.Value)
	})

	t.Run("bad password is a uniform 401", func(t *testing.T) {
		resp := f.postJSON(t, "/v1/auth/login", "", map[string]string{
			"email":    "admin@siged.test",
			"password": "wrong",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "invalid_credentials", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := f.postJSON(t, "/v1/auth/login", "", map[string]string{"email": "admin@siged.test"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefreshViaCookie(t *testing.T) {
	f := newRouterFixture(t)
	f.seedUsuario(t, "admin@siged.test", "correcthorse", domain.RolAdmin)

	_, cookie := f.login(t, "admin@siged.test", "correcthorse")
	require.NotNil(t, cookie)

	// Browser-style refresh: no body, just the session cookie.
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/v1/auth/refresh", bytes.NewReader(nil))
	require.NoError(t, err)
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.NotEmpty(t, tokens["access_token"])
	require.NotEqual(t, cookie.Value, tokens["refresh_token"])
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.postJSON(t, "/v1/auth/logout", "", map[string]string{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			require.Less(t, c.MaxAge, 0)
		}
	}
}

func TestRegistrosRoleGating(t *testing.T) {
	f := newRouterFixture(t)
	f.seedUsuario(t, "admin@siged.test", "correcthorse", domain.RolAdmin)
	f.seedUsuario(t, "gestor@siged.test", "correcthorse", domain.RolGestor)

	adminTokens, _ := f.login(t, "admin@siged.test", "correcthorse")
	gestorTokens, _ := f.login(t, "gestor@siged.test", "correcthorse")

	payload := map[string]any{
		"nombre":      "IE La Esperanza",
		"codigo_dane": "270001000001",
		"municipio":   "Sincelejo",
	}

	t.Run("anonymous write rejected", func(t *testing.T) {
		resp := f.postJSON(t, "/v1/instituciones", "", payload)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("gestor write forbidden", func(t *testing.T) {
		resp := f.postJSON(t, "/v1/instituciones", gestorTokens["access_token"].(string), payload)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin write allowed", func(t *testing.T) {
		resp := f.postJSON(t, "/v1/instituciones", adminTokens["access_token"].(string), payload)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("gestor read allowed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, f.server.URL+"/v1/instituciones", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+gestorTokens["access_token"].(string))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		require.Len(t, list, 1)
	})

	t.Run("usuarios surface needs super_admin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, f.server.URL+"/v1/usuarios", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+adminTokens["access_token"].(string))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(f.server.URL + path)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, "ok", body["status"], path)
	}
}
