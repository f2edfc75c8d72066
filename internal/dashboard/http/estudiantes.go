package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
)

type EstudiantesHandler struct {
	Registros *service.RegistrosService
}

type estudiantePayload struct {
	ID              string `json:"id,omitempty"`
	InstitucionID   string `json:"institucion_id"`
	Documento       string `json:"documento"`
	TipoDocumento   string `json:"tipo_documento"`
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	Grado           string `json:"grado"`
	Sede            string `json:"sede"`
	FechaNacimiento string `json:"fecha_nacimiento,omitempty"` // RFC 3339 date
	Acudiente       string `json:"acudiente"`
	Telefono        string `json:"telefono"`
	Activo          bool   `json:"activo"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

func toEstudiantePayload(e domain.Estudiante) estudiantePayload {
	p := estudiantePayload{
		ID:            e.ID,
		InstitucionID: e.InstitucionID,
		Documento:     e.Documento,
		TipoDocumento: e.TipoDocumento,
		Nombres:       e.Nombres,
		Apellidos:     e.Apellidos,
		Grado:         e.Grado,
		Sede:          e.Sede,
		Acudiente:     e.Acudiente,
		Telefono:      e.Telefono,
		Activo:        e.Activo,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.FechaNacimiento != nil {
		p.FechaNacimiento = e.FechaNacimiento.UTC().Format("2006-01-02")
	}
	return p
}

func (p estudiantePayload) toDomain() (domain.Estudiante, error) {
	e := domain.Estudiante{
		ID:            p.ID,
		InstitucionID: p.InstitucionID,
		Documento:     p.Documento,
		TipoDocumento: p.TipoDocumento,
		Nombres:       p.Nombres,
		Apellidos:     p.Apellidos,
		Grado:         p.Grado,
		Sede:          p.Sede,
		Acudiente:     p.Acudiente,
		Telefono:      p.Telefono,
		Activo:        p.Activo,
	}
	if p.FechaNacimiento != "" {
		t, err := time.Parse("2006-01-02", p.FechaNacimiento)
		if err != nil {
			return domain.Estudiante{}, err
		}
		e.FechaNacimiento = &t
	}
	return e, nil
}

// HandleList godoc
//
//	@Summary	Listar estudiantes
//	@Tags		Estudiantes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		institucion_id	query	string	false	"filter by institución"
//	@Success	200				{array}	estudiantePayload
//	@Router		/v1/estudiantes [get].
func (h *EstudiantesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Registros.ListEstudiantes(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	out := make([]estudiantePayload, 0, len(list))
	for _, e := range list {
		out = append(out, toEstudiantePayload(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *EstudiantesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.Registros.GetEstudiante(ctx, r.PathValue("id"))
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEstudiantePayload(e))
}

func (h *EstudiantesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p estudiantePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := p.toDomain()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fecha_nacimiento must be YYYY-MM-DD")
		return
	}
	e, err := h.Registros.CreateEstudiante(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEstudiantePayload(e))
}

func (h *EstudiantesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p estudiantePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	rec, err := p.toDomain()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "fecha_nacimiento must be YYYY-MM-DD")
		return
	}
	rec.ID = r.PathValue("id")
	e, err := h.Registros.UpdateEstudiante(ctx, rec)
	if err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEstudiantePayload(e))
}

func (h *EstudiantesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Registros.DeleteEstudiante(ctx, r.PathValue("id")); err != nil {
		writeRegistroError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
