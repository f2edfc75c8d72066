package domain

import "time"

// Documento is the stored metadata for an uploaded file. The bytes live on
// disk under the configured documents directory, keyed by ID.
type Documento struct {
	ID            string
	InstitucionID string
	Nombre        string // original filename
	Categoria     string // e.g. "resoluciones", "actas", "contratos"
	ContentType   string
	SizeBytes     int64
	SubidoPor     string // usuario id
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
