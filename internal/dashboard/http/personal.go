package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
)

// PersonalHandler groups the staff collections: profesores and rectores.
type PersonalHandler struct {
	Registros *service.RegistrosService
}

type profesorPayload struct {
	ID            string `json:"id,omitempty"`
	InstitucionID string `json:"institucion_id"`
	Documento     string `json:"documento"`
	Nombres       string `json:"nombres"`
	Apellidos     string `json:"apellidos"`
	Email         string `json:"email"`
	Telefono      string `json:"telefono"`
	Area          string `json:"area"`
	Escalafon     string `json:"escalafon"`
	Activo        bool   `json:"activo"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toProfesorPayload(p domain.Profesor) profesorPayload {
	return profesorPayload{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		Documento:     p.Documento,
		Nombres:       p.Nombres,
		Apellidos:     p.Apellidos,
		Email:         p.Email,
		Telefono:      p.Telefono,
		Area:          p.Area,
		Escalafon:     p.Escalafon,
		Activo:        p.Activo,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p profesorPayload) toDomain() domain.Profesor {
	return domain.Profesor{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		Documento:     p.Documento,
		Nombres:       p.Nombres,
		Apellidos:     p.Apellidos,
		Email:         p.Email,
		Telefono:      p.Telefono,
		Area:          p.Area,
		Escalafon:     p.Escalafon,
		Activo:        p.Activo,
	}
}

type rectorPayload struct {
	ID            string `json:"id,omitempty"`
	InstitucionID string `json:"institucion_id"`
	Documento     string `json:"documento"`
	Nombres       string `json:"nombres"`
	Apellidos     string `json:"apellidos"`
	Email         string `json:"email"`
	Telefono      string `json:"telefono"`
	Resolucion    string `json:"resolucion"`
	Activo        bool   `json:"activo"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toRectorPayload(rec domain.Rector) rectorPayload {
	return rectorPayload{
		ID:            rec.ID,
		InstitucionID: rec.InstitucionID,
		Documento:     rec.Documento,
		Nombres:       rec.Nombres,
		Apellidos:     rec.Apellidos,
		Email:         rec.Email,
		Telefono:      rec.Telefono,
		Resolucion:    rec.Resolucion,
		Activo:        rec.Activo,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p rectorPayload) toDomain() domain.Rector {
	return domain.Rector{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		Documento:     p.Documento,
		Nombres:       p.Nombres,
		Apellidos:     p.Apellidos,
		Email:         p.Email,
		Telefono:      p.Telefono,
		Resolucion:    p.Resolucion,
		Activo:        p.Activo,
	}
}

// Profesores

func (h *PersonalHandler) HandleListProfesores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListProfesores(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]profesorPayload, 0, len(list))
	for _, p := range list {
		out = append(out, toProfesorPayload(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *PersonalHandler) HandleGetProfesor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.Registros.GetProfesor(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfesorPayload(p))
}

func (h *PersonalHandler) HandleCreateProfesor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p profesorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := h.Registros.CreateProfesor(ctx, p.toDomain())
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProfesorPayload(rec))
}

func (h *PersonalHandler) HandleUpdateProfesor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p profesorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec := p.toDomain()
	rec.ID = r.PathValue("id")
	out, err := h.Registros.UpdateProfesor(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfesorPayload(out))
}

func (h *PersonalHandler) HandleDeleteProfesor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteProfesor(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rectores

func (h *PersonalHandler) HandleListRectores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListRectores(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]rectorPayload, 0, len(list))
	for _, rec := range list {
		out = append(out, toRectorPayload(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *PersonalHandler) HandleGetRector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.Registros.GetRector(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRectorPayload(rec))
}

func (h *PersonalHandler) HandleCreateRector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p rectorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := h.Registros.CreateRector(ctx, p.toDomain())
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRectorPayload(rec))
}

func (h *PersonalHandler) HandleUpdateRector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p rectorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec := p.toDomain()
	rec.ID = r.PathValue("id")
	out, err := h.Registros.UpdateRector(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRectorPayload(out))
}

func (h *PersonalHandler) HandleDeleteRector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteRector(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
