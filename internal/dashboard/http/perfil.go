package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/slogx"
)

// PerfilHandler serves the authenticated account's own profile.
type PerfilHandler struct {
	PerfilService *service.PerfilService
	MFAService    *service.MFAService
}

type perfilResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nombre    string `json:"nombre"`
	Rol       string `json:"rol"`
	MFAActiva bool   `json:"mfa_activa"`
	CreatedAt string `json:"created_at"`
}

func toPerfilResponse(u domain.Usuario) perfilResponse {
	return perfilResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Rol:       u.Rol,
		MFAActiva: u.MFAActive(),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type perfilPatch struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleGet godoc
//
//	@Summary	Perfil de la cuenta autenticada
//	@Tags		Perfil
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	perfilResponse
//	@Router		/v1/perfil [get].
func (h *PerfilHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.PerfilService.Get(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUsuarioNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "cuenta no encontrada")
			return
		}
		slogx.FromContext(ctx).Error("perfil lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPerfilResponse(u))
}

// HandlePatch godoc
//
//	@Summary		Actualizar el perfil propio
//	@Description	Partial update of nombre/email/password. A password change revokes every session.
//	@Tags			Perfil
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patch	body		perfilPatch	true	"fields to change; empty fields are left untouched"
//	@Success		200		{object}	perfilResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse
//	@Router			/v1/perfil [patch].
func (h *PerfilHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var patch perfilPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	u, err := h.PerfilService.Update(ctx, httpx.UserIDFromContext(ctx), service.PerfilUpdate{
		Nombre:   patch.Nombre,
		Email:    patch.Email,
		Password: patch.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "el email ya está en uso")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", "la contraseña es demasiado corta")
		case errors.Is(err, service.ErrUsuarioNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "cuenta no encontrada")
		default:
			log.Error("perfil update failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPerfilResponse(u))
}

type mfaCodeRequest struct {
	Codigo string `json:"codigo"`
}

// HandleMFAEnroll starts TOTP enrollment and returns the otpauth URL.
func (h *PerfilHandler) HandleMFAEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enrollment, err := h.MFAService.Enroll(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeMFAError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, enrollment)
}

// HandleMFAActivate proves the authenticator works and turns MFA on.
func (h *PerfilHandler) HandleMFAActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Codigo == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "codigo is required")
		return
	}
	if err := h.MFAService.Activate(ctx, httpx.UserIDFromContext(ctx), req.Codigo); err != nil {
		writeMFAError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMFADeactivate removes the second factor, demanding a current code.
func (h *PerfilHandler) HandleMFADeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Codigo == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "codigo is required")
		return
	}
	if err := h.MFAService.Deactivate(ctx, httpx.UserIDFromContext(ctx), req.Codigo); err != nil {
		writeMFAError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeMFAError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMFAAlreadyActive):
		httpx.WriteError(w, http.StatusConflict, "mfa_already_active", "MFA ya está activo")
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusConflict, "mfa_not_enrolled", "no hay un secreto TOTP pendiente")
	case errors.Is(err, service.ErrMFABadCode):
		httpx.WriteError(w, http.StatusUnauthorized, "mfa_bad_code", "el código no es válido")
	case errors.Is(err, service.ErrUsuarioNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "cuenta no encontrada")
	default:
		slogx.FromContext(ctx).Error("mfa operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
	}
}
