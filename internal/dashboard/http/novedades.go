package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
)

// NovedadesHandler groups the staffing novelty collections: suplencias and
// horas extra.
type NovedadesHandler struct {
	Registros *service.RegistrosService
}

type suplenciaPayload struct {
	ID                 string `json:"id,omitempty"`
	InstitucionID      string `json:"institucion_id"`
	ProfesorAusenteID  string `json:"profesor_ausente_id"`
	ProfesorSuplenteID string `json:"profesor_suplente_id"`
	Motivo             string `json:"motivo"`
	FechaInicio        string `json:"fecha_inicio"` // YYYY-MM-DD
	FechaFin           string `json:"fecha_fin"`
	Estado             string `json:"estado"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

func toSuplenciaPayload(s domain.Suplencia) suplenciaPayload {
	return suplenciaPayload{
		ID:                 s.ID,
		InstitucionID:      s.InstitucionID,
		ProfesorAusenteID:  s.ProfesorAusenteID,
		ProfesorSuplenteID: s.ProfesorSuplenteID,
		Motivo:             s.Motivo,
		FechaInicio:        s.FechaInicio.UTC().Format("2006-01-02"),
		FechaFin:           s.FechaFin.UTC().Format("2006-01-02"),
		Estado:             s.Estado,
		CreatedAt:          s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p suplenciaPayload) toDomain() (domain.Suplencia, error) {
	inicio, err := time.Parse("2006-01-02", p.FechaInicio)
	if err != nil {
		return domain.Suplencia{}, err
	}
	fin, err := time.Parse("2006-01-02", p.FechaFin)
	if err != nil {
		return domain.Suplencia{}, err
	}
	return domain.Suplencia{
		ID:                 p.ID,
		InstitucionID:      p.InstitucionID,
		ProfesorAusenteID:  p.ProfesorAusenteID,
		ProfesorSuplenteID: p.ProfesorSuplenteID,
		Motivo:             p.Motivo,
		FechaInicio:        inicio,
		FechaFin:           fin,
		Estado:             p.Estado,
	}, nil
}

type horaExtraPayload struct {
	ID            string  `json:"id,omitempty"`
	InstitucionID string  `json:"institucion_id"`
	ProfesorID    string  `json:"profesor_id"`
	Fecha         string  `json:"fecha"` // YYYY-MM-DD
	Horas         float64 `json:"horas"`
	Concepto      string  `json:"concepto"`
	Estado        string  `json:"estado,omitempty"`
	AprobadaPor   string  `json:"aprobada_por,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

func toHoraExtraPayload(h domain.HoraExtra) horaExtraPayload {
	return horaExtraPayload{
		ID:            h.ID,
		InstitucionID: h.InstitucionID,
		ProfesorID:    h.ProfesorID,
		Fecha:         h.Fecha.UTC().Format("2006-01-02"),
		Horas:         h.Horas,
		Concepto:      h.Concepto,
		Estado:        h.Estado,
		AprobadaPor:   h.AprobadaPor,
		CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type resolverHoraExtraRequest struct {
	Estado string `json:"estado"` // aprobada or rechazada
}

// Suplencias

func (h *NovedadesHandler) HandleListSuplencias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListSuplencias(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]suplenciaPayload, 0, len(list))
	for _, s := range list {
		out = append(out, toSuplenciaPayload(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *NovedadesHandler) HandleGetSuplencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.Registros.GetSuplencia(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSuplenciaPayload(s))
}

func (h *NovedadesHandler) HandleCreateSuplencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p suplenciaPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := p.toDomain()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fechas must be YYYY-MM-DD")
		return
	}
	s, err := h.Registros.CreateSuplencia(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSuplenciaPayload(s))
}

func (h *NovedadesHandler) HandleUpdateSuplencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p suplenciaPayload
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
	s, err := h.Registros.UpdateSuplencia(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSuplenciaPayload(s))
}

func (h *NovedadesHandler) HandleDeleteSuplencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteSuplencia(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Horas extra

func (h *NovedadesHandler) HandleListHorasExtra(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListHorasExtra(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]horaExtraPayload, 0, len(list))
	for _, he := range list {
		out = append(out, toHoraExtraPayload(he))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *NovedadesHandler) HandleGetHoraExtra(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	he, err := h.Registros.GetHoraExtra(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toHoraExtraPayload(he))
}

func (h *NovedadesHandler) HandleCreateHoraExtra(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p horaExtraPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	rec := domain.HoraExtra{
		InstitucionID: p.InstitucionID,
		ProfesorID:    p.ProfesorID,
		Horas:         p.Horas,
		Concepto:      p.Concepto,
	}
	if p.Fecha != "" {
		fecha, err := time.Parse("2006-01-02", p.Fecha)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fecha must be YYYY-MM-DD")
			return
		}
		rec.Fecha = fecha
	}

	he, err := h.Registros.CreateHoraExtra(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toHoraExtraPayload(he))
}

// HandleResolverHoraExtra approves or rejects a pending record; the acting
// usuario is stamped as the approver.
func (h *NovedadesHandler) HandleResolverHoraExtra(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req resolverHoraExtraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	he, err := h.Registros.ResolverHoraExtra(ctx, r.PathValue("id"), req.Estado, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toHoraExtraPayload(he))
}

func (h *NovedadesHandler) HandleDeleteHoraExtra(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteHoraExtra(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
