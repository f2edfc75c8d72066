package dashboard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/colegiosoft/siged/pkg/sessionsdk"
	"github.com/stretchr/testify/require"
)

// TestRegistroAdministration drives the record collections through a real
// container: account provisioning, role gating, the institucion lifecycle
// and the horas extra approval flow.
func TestRegistroAdministration(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := sessionsdk.NewClient(baseURL)
	admin := loginAdmin(t, client)

	// Provision a gestor account through the super_admin surface.
	gestorEmail := "gestor@siged.test"
	gestorPassword := "Gestor123!seguro"
	status := doJSON(t, http.MethodPost, baseURL+"/v1/usuarios", admin.AccessToken, map[string]string{
		"email":    gestorEmail,
		"nombre":   "Gestora de Planta",
		"password": gestorPassword,
		"rol":      "gestor",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	gestor, err := client.Login(ctx, gestorEmail, gestorPassword, "")
	require.NoError(t, err)
	assertTokenResponse(t, gestor)

	var institucion struct {
		ID string `json:"id"`
	}

	t.Run("institucion lifecycle", func(t *testing.T) {
		payload := map[string]any{
			"nombre":      "IE San José",
			"codigo_dane": "270001000010",
			"municipio":   "Corozal",
			"direccion":   "Calle 20 # 14-33",
		}
		status := doJSON(t, http.MethodPost, baseURL+"/v1/instituciones", admin.AccessToken, payload, &institucion)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, institucion.ID)

		// Duplicate DANE code is rejected.
		status = doJSON(t, http.MethodPost, baseURL+"/v1/instituciones", admin.AccessToken, payload, nil)
		require.Equal(t, http.StatusConflict, status)

		var got struct {
			Nombre    string `json:"nombre"`
			Municipio string `json:"municipio"`
		}
		status = doJSON(t, http.MethodGet, baseURL+"/v1/instituciones/"+institucion.ID, gestor.AccessToken, nil, &got)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "IE San José", got.Nombre)
		require.Equal(t, "Corozal", got.Municipio)
	})

	t.Run("gestor cannot write", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, baseURL+"/v1/instituciones", gestor.AccessToken, map[string]any{
			"nombre":      "IE No Autorizada",
			"codigo_dane": "270001000099",
		}, nil)
		require.Equal(t, http.StatusForbidden, status)

		status = doJSON(t, http.MethodGet, baseURL+"/v1/usuarios", gestor.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("horas extra approval flow", func(t *testing.T) {
		var profesor struct {
			ID string `json:"id"`
		}
		status := doJSON(t, http.MethodPost, baseURL+"/v1/profesores", admin.AccessToken, map[string]any{
			"institucion_id": institucion.ID,
			"documento":      "1102545870",
			"nombres":        "Luisa",
			"apellidos":      "Paternina",
			"area":           "Matemáticas",
			"activo":         true,
		}, &profesor)
		require.Equal(t, http.StatusCreated, status)

		var hora struct {
			ID     string `json:"id"`
			Estado string `json:"estado"`
		}
		status = doJSON(t, http.MethodPost, baseURL+"/v1/horas-extra", admin.AccessToken, map[string]any{
			"institucion_id": institucion.ID,
			"profesor_id":    profesor.ID,
			"fecha":          "2026-08-14",
			"horas":          4,
			"concepto":       "Refuerzo escolar sabatino",
		}, &hora)
		require.Equal(t, http.StatusCreated, status)
		require.Equal(t, "pendiente", hora.Estado)

		var resolved struct {
			Estado      string `json:"estado"`
			AprobadaPor string `json:"aprobada_por"`
		}
		status = doJSON(t, http.MethodPost, baseURL+"/v1/horas-extra/"+hora.ID+"/resolver", admin.AccessToken,
			map[string]string{"estado": "aprobada"}, &resolved)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "aprobada", resolved.Estado)
		require.NotEmpty(t, resolved.AprobadaPor)

		// A resolved record stays resolved.
		status = doJSON(t, http.MethodPost, baseURL+"/v1/horas-extra/"+hora.ID+"/resolver", admin.AccessToken,
			map[string]string{"estado": "rechazada"}, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("documento upload and download", func(t *testing.T) {
		content := []byte("RESOLUCIÓN No. 0219 DE 2026\nPor la cual se reconocen horas extra.")
		id := uploadDocumento(t, baseURL, admin.AccessToken, institucion.ID, "resolucion-0219.pdf", content)

		req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/documentos/"+id+"/descargar", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+gestor.AccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, content, got)

		status := doJSON(t, http.MethodDelete, baseURL+"/v1/documentos/"+id, gestor.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, status)

		status = doJSON(t, http.MethodDelete, baseURL+"/v1/documentos/"+id, admin.AccessToken, nil, nil)
		require.Equal(t, http.StatusNoContent, status)
	})
}

// uploadDocumento posts a multipart document and returns its ID.
func uploadDocumento(t *testing.T, baseURL, accessToken, institucionID, nombre string, content []byte) string {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("archivo", nombre)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.WriteField("institucion_id", institucionID))
	require.NoError(t, form.WriteField("categoria", "resoluciones"))
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/documentos", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.NotEmpty(t, doc.ID)
	return doc.ID
}
