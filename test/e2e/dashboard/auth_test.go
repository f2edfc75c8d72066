package dashboard_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/colegiosoft/siged/pkg/sessionsdk"
	"github.com/stretchr/testify/require"
)

// TestAuthLifecycle walks the whole session lifecycle against a real
// container: login, refresh rotation, profile update, logout.
func TestAuthLifecycle(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := sessionsdk.NewClient(baseURL)

	t.Run("rejects bad credentials", func(t *testing.T) {
		_, err := client.Login(ctx, adminEmail, "definitely-wrong", "")
		assertAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")
	})

	tokens := loginAdmin(t, client)

	t.Run("refresh rotates the pair", func(t *testing.T) {
		rotated, err := client.Refresh(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assertTokenResponse(t, rotated)
		require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

		// The old refresh token is revoked by the rotation.
		_, err = client.Refresh(ctx, tokens.RefreshToken)
		assertAPIError(t, err, http.StatusUnauthorized, "invalid_refresh_token")

		tokens = rotated
	})

	t.Run("perfil reflects the authenticated account", func(t *testing.T) {
		var perfil struct {
			Email  string `json:"email"`
			Nombre string `json:"nombre"`
			Rol    string `json:"rol"`
		}
		status := doJSON(t, http.MethodGet, baseURL+"/v1/perfil", tokens.AccessToken, nil, &perfil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, adminEmail, perfil.Email)
		require.Equal(t, "super_admin", perfil.Rol)

		require.NoError(t, client.UpdatePerfil(ctx, tokens.AccessToken, sessionsdk.PerfilPatch{
			Nombre: "Administrador General",
		}))

		status = doJSON(t, http.MethodGet, baseURL+"/v1/perfil", tokens.AccessToken, nil, &perfil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Administrador General", perfil.Nombre)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		require.NoError(t, client.Logout(ctx, tokens.RefreshToken))

		_, err := client.Refresh(ctx, tokens.RefreshToken)
		assertAPIError(t, err, http.StatusUnauthorized, "invalid_refresh_token")
	})
}

// TestSDKManagerAgainstServer exercises the session manager end to end so
// the SDK the desktop shell embeds is verified against a real backend, not
// just its fake client.
func TestSDKManagerAgainstServer(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := sessionsdk.NewClient(baseURL)
	manager := sessionsdk.NewManager(client, sessionsdk.NewMemoryStore())

	require.False(t, manager.IsAuthenticated())

	ok := manager.Login(ctx, adminEmail, adminPassword)
	require.True(t, ok, "manager login should succeed: %s", manager.Err())
	require.True(t, manager.IsAuthenticated())
	require.True(t, manager.HasRole("super_admin"))
	require.NotEmpty(t, manager.AccessToken())

	require.True(t, manager.Refresh(ctx), "manager refresh should succeed")
	require.True(t, manager.IsAuthenticated())

	manager.Logout(ctx)
	require.False(t, manager.IsAuthenticated())
	require.Empty(t, manager.AccessToken())
}
