package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/slogx"
)

// maxDocumentoBytes caps a single upload. Anything larger belongs in a
// proper object store, not the dashboard.
const maxDocumentoBytes = 32 << 20

type DocumentosHandler struct {
	Documentos *service.DocumentosService
}

type documentoPayload struct {
	ID            string `json:"id"`
	InstitucionID string `json:"institucion_id"`
	Nombre        string `json:"nombre"`
	Categoria     string `json:"categoria,omitempty"`
	ContentType   string `json:"content_type"`
	SizeBytes     int64  `json:"size_bytes"`
	SubidoPor     string `json:"subido_por"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toDocumentoPayload(d domain.Documento) documentoPayload {
	return documentoPayload{
		ID:            d.ID,
		InstitucionID: d.InstitucionID,
		Nombre:        d.Nombre,
		Categoria:     d.Categoria,
		ContentType:   d.ContentType,
		SizeBytes:     d.SizeBytes,
		SubidoPor:     d.SubidoPor,
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func writeDocumentoError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentoNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "documento no encontrado")
	case errors.Is(err, service.ErrInvalidRegistro):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "faltan campos obligatorios")
	default:
		slogx.FromContext(ctx).Error("documento operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
	}
}

// HandleUpload godoc
//
//	@Summary		Upload a document
//	@Description	Stores a file plus its metadata. Multipart form with fields
//	@Description	`archivo` (the file), `institucion_id` and optional `categoria`.
//	@Tags			documentos
//	@Accept			mpfd
//	@Produce		json
//	@Param			archivo			formData	file	true	"File to store"
//	@Param			institucion_id	formData	string	true	"Owning institution"
//	@Param			categoria		formData	string	false	"Free-form category"
//	@Success		201	{object}	documentoPayload
//	@Failure		400	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/v1/documentos [post]
func (h *DocumentosHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentoBytes)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "expected multipart form data")
		return
	}

	file, header, err := r.FormFile("archivo")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "missing 'archivo' file field")
		return
	}
	defer file.Close()

	doc := domain.Documento{
		InstitucionID: r.FormValue("institucion_id"),
		Categoria:     r.FormValue("categoria"),
		Nombre:        header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		SubidoPor:     httpx.UserIDFromContext(ctx),
	}

	out, err := h.Documentos.Upload(ctx, doc, file)
	if err != nil {
		writeDocumentoError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDocumentoPayload(out))
}

func (h *DocumentosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Documentos.List(ctx, r.URL.Query().Get("institucion_id"))
	if err != nil {
		writeDocumentoError(w, ctx, err)
		return
	}
	out := make([]documentoPayload, 0, len(list))
	for _, d := range list {
		out = append(out, toDocumentoPayload(d))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DocumentosHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.Documentos.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeDocumentoError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDocumentoPayload(d))
}

// HandleDownload godoc
//
//	@Summary	Download a document's bytes
//	@Tags		documentos
//	@Produce	octet-stream
//	@Param		id	path	string	true	"Documento ID"
//	@Success	200	{file}	binary
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/documentos/{id}/descargar [get]
func (h *DocumentosHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, rc, err := h.Documentos.Open(ctx, r.PathValue("id"))
	if err != nil {
		writeDocumentoError(w, ctx, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", d.SizeBytes))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Nombre}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slogx.FromContext(ctx).Error("stream documento", "id", d.ID, "err", err)
	}
}

func (h *DocumentosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Documentos.Delete(ctx, r.PathValue("id")); err != nil {
		writeDocumentoError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
