package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/slogx"
)

// UsuariosHandler is the super_admin account administration surface.
type UsuariosHandler struct {
	UsuariosService *service.UsuariosService
}

type createUsuarioRequest struct {
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type updateRolRequest struct {
	Rol string `json:"rol"`
}

// HandleList godoc
//
//	@Summary	Listar cuentas
//	@Tags		Usuarios
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	perfilResponse
//	@Router		/v1/usuarios [get].
func (h *UsuariosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	usuarios, err := h.UsuariosService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("usuarios list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		return
	}

	out := make([]perfilResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, toPerfilResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary	Crear una cuenta
//	@Tags		Usuarios
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		usuario	body		createUsuarioRequest	true	"email, nombre, password, rol"
//	@Success	201		{object}	perfilResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Router		/v1/usuarios [post].
func (h *UsuariosHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	u, err := h.UsuariosService.Create(ctx, req.Email, req.Nombre, req.Password, req.Rol)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCampos):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and nombre are required")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", "la contraseña es demasiado corta")
		case errors.Is(err, service.ErrInvalidRol):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_rol", "rol must be super_admin, admin or gestor")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "el email ya está en uso")
		default:
			log.Error("usuario create failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPerfilResponse(u))
}

// HandleUpdateRol godoc
//
//	@Summary	Cambiar el rol de una cuenta
//	@Tags		Usuarios
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id	path	string				true	"usuario id"
//	@Param		rol	body	updateRolRequest	true	"new rol"
//	@Success	204
//	@Router		/v1/usuarios/{id}/rol [patch].
func (h *UsuariosHandler) HandleUpdateRol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateRolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	err := h.UsuariosService.UpdateRol(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Rol)
	if err != nil {
		writeUsuariosError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary	Eliminar una cuenta
//	@Tags		Usuarios
//	@Security	BearerAuth
//	@Param		id	path	string	true	"usuario id"
//	@Success	204
//	@Router		/v1/usuarios/{id} [delete].
func (h *UsuariosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.UsuariosService.Delete(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeUsuariosError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUsuariosError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRol):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_rol", "rol must be super_admin, admin or gestor")
	case errors.Is(err, service.ErrSelfDemotion):
		httpx.WriteError(w, http.StatusBadRequest, "self_demotion", "una cuenta no puede modificarse a sí misma")
	case errors.Is(err, service.ErrUsuarioNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "cuenta no encontrada")
	default:
		slogx.FromContext(ctx).Error("usuarios operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
	}
}
