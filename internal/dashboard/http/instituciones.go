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

type InstitucionesHandler struct {
	Registros *service.RegistrosService
}

type institucionPayload struct {
	ID         string `json:"id,omitempty"`
	Nombre     string `json:"nombre"`
	CodigoDANE string `json:"codigo_dane"`
	Municipio  string `json:"municipio"`
	Direccion  string `json:"direccion"`
	Telefono   string `json:"telefono"`
	RectorID   string `json:"rector_id"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

func toInstitucionPayload(i domain.Institucion) institucionPayload {
	return institucionPayload{
		ID:         i.ID,
		Nombre:     i.Nombre,
		CodigoDANE: i.CodigoDANE,
		Municipio:  i.Municipio,
		Direccion:  i.Direccion,
		Telefono:   i.Telefono,
		RectorID:   i.RectorID,
		CreatedAt:  i.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  i.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p institucionPayload) toDomain() domain.Institucion {
	return domain.Institucion{
		ID:         p.ID,
		Nombre:     p.Nombre,
		CodigoDANE: p.CodigoDANE,
		Municipio:  p.Municipio,
		Direccion:  p.Direccion,
		Telefono:   p.Telefono,
		RectorID:   p.RectorID,
	}
}

// writeRegistroError maps the shared registry error set; handlers fall back
// to it for every collection.
func writeRegistroError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRegistroNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "registro no encontrado")
	case errors.Is(err, service.ErrRegistroConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "ya existe un registro con ese identificador")
	case errors.Is(err, service.ErrInvalidRegistro):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "faltan campos obligatorios")
	case errors.Is(err, service.ErrInvalidEstado):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_estado", "estado no válido para esta operación")
	case errors.Is(err, service.ErrInvalidRango):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_date_range", "el rango de fechas es inválido")
	default:
		slogx.FromContext(ctx).Error("registro operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
	}
}

// HandleList godoc
//
//	@Summary	Listar instituciones
//	@Tags		Instituciones
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	institucionPayload
//	@Router		/v1/instituciones [get].
func (h *InstitucionesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListInstituciones(ctx)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]institucionPayload, 0, len(list))
	for _, i := range list {
		out = append(out, toInstitucionPayload(i))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InstitucionesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	i, err := h.Registros.GetInstitucion(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInstitucionPayload(i))
}

// HandleCreate godoc
//
//	@Summary	Crear una institución
//	@Tags		Instituciones
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		institucion	body		institucionPayload	true	"nombre and codigo_dane are required"
//	@Success	201			{object}	institucionPayload
//	@Router		/v1/instituciones [post].
func (h *InstitucionesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p institucionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	i, err := h.Registros.CreateInstitucion(ctx, p.toDomain())
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInstitucionPayload(i))
}

func (h *InstitucionesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p institucionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec := p.toDomain()
	rec.ID = r.PathValue("id")
	i, err := h.Registros.UpdateInstitucion(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInstitucionPayload(i))
}

func (h *InstitucionesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteInstitucion(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
