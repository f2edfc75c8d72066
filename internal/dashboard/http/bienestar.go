package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
)

// BienestarHandler groups the student-welfare collections: PAE meal
// benefits and transport routes.
type BienestarHandler struct {
	Registros *service.RegistrosService
}

type paePayload struct {
	ID            string `json:"id,omitempty"`
	InstitucionID string `json:"institucion_id"`
	EstudianteID  string `json:"estudiante_id"`
	TipoBeneficio string `json:"tipo_beneficio"`
	FechaInicio   string `json:"fecha_inicio,omitempty"` // YYYY-MM-DD
	FechaFin      string `json:"fecha_fin,omitempty"`
	Activo        bool   `json:"activo"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toPAEPayload(p domain.PAE) paePayload {
	out := paePayload{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		EstudianteID:  p.EstudianteID,
		TipoBeneficio: p.TipoBeneficio,
		FechaInicio:   p.FechaInicio.UTC().Format("2006-01-02"),
		Activo:        p.Activo,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.FechaFin != nil {
		out.FechaFin = p.FechaFin.UTC().Format("2006-01-02")
	}
	return out
}

func (p paePayload) toDomain() (domain.PAE, error) {
	out := domain.PAE{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		EstudianteID:  p.EstudianteID,
		TipoBeneficio: p.TipoBeneficio,
		Activo:        p.Activo,
	}
	if p.FechaInicio != "" {
		t, err := time.Parse("2006-01-02", p.FechaInicio)
		if err != nil {
			return domain.PAE{}, err
		}
		out.FechaInicio = t
	}
	if p.FechaFin != "" {
		t, err := time.Parse("2006-01-02", p.FechaFin)
		if err != nil {
			return domain.PAE{}, err
		}
		out.FechaFin = &t
	}
	return out, nil
}

type transportePayload struct {
	ID            string `json:"id,omitempty"`
	InstitucionID string `json:"institucion_id"`
	Ruta          string `json:"ruta"`
	Conductor     string `json:"conductor"`
	Placa         string `json:"placa"`
	Capacidad     int    `json:"capacidad"`
	Asignados     int    `json:"asignados"`
	Activo        bool   `json:"activo"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toTransportePayload(t domain.Transporte) transportePayload {
	return transportePayload{
		ID:            t.ID,
		InstitucionID: t.InstitucionID,
		Ruta:          t.Ruta,
		Conductor:     t.Conductor,
		Placa:         t.Placa,
		Capacidad:     t.Capacidad,
		Asignados:     t.Asignados,
		Activo:        t.Activo,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p transportePayload) toDomain() domain.Transporte {
	return domain.Transporte{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		Ruta:          p.Ruta,
		Conductor:     p.Conductor,
		Placa:         p.Placa,
		Capacidad:     p.Capacidad,
		Asignados:     p.Asignados,
		Activo:        p.Activo,
	}
}

// PAE

func (h *BienestarHandler) HandleListPAE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListPAE(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]paePayload, 0, len(list))
	for _, p := range list {
		out = append(out, toPAEPayload(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *BienestarHandler) HandleGetPAE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.Registros.GetPAE(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPAEPayload(p))
}

func (h *BienestarHandler) HandleCreatePAE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p paePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := p.toDomain()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fechas must be YYYY-MM-DD")
		return
	}
	out, err := h.Registros.CreatePAE(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPAEPayload(out))
}

func (h *BienestarHandler) HandleUpdatePAE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p paePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := p.toDomain()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fechas must be YYYY-MM-DD")
		return
	}
	rec.ID = r.PathValue("id")
	out, err := h.Registros.UpdatePAE(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPAEPayload(out))
}

func (h *BienestarHandler) HandleDeletePAE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeletePAE(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transporte

func (h *BienestarHandler) HandleListTransporte(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListTransporte(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]transportePayload, 0, len(list))
	for _, t := range list {
		out = append(out, toTransportePayload(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *BienestarHandler) HandleGetTransporte(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := h.Registros.GetTransporte(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTransportePayload(t))
}

func (h *BienestarHandler) HandleCreateTransporte(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p transportePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	t, err := h.Registros.CreateTransporte(ctx, p.toDomain())
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTransportePayload(t))
}

func (h *BienestarHandler) HandleUpdateTransporte(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p transportePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec := p.toDomain()
	rec.ID = r.PathValue("id")
	t, err := h.Registros.UpdateTransporte(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTransportePayload(t))
}

func (h *BienestarHandler) HandleDeleteTransporte(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteTransporte(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
