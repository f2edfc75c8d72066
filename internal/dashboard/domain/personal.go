package domain

import "time"

type Profesor struct {
	ID            string
	InstitucionID string
	Documento     string
	Nombres       string
	Apellidos     string
	Email         string
	Telefono      string
	Area          string // subject area, e.g. "matemáticas"
	Escalafon     string // national teaching rank
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Rector struct {
	ID            string
	InstitucionID string
	Documento     string
	Nombres       string
	Apellidos     string
	Email         string
	Telefono      string
	Resolucion    string // appointment resolution number
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Suplencia covers an absent professor with a substitute for a date range.
type Suplencia struct {
	ID                 string
	InstitucionID      string
	ProfesorAusenteID  string
	ProfesorSuplenteID string
	Motivo             string
	FechaInicio        time.Time
	FechaFin           time.Time
	Estado             string // pendiente, aprobada, rechazada, finalizada
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HoraExtra is a professor's overtime record awaiting approval.
type HoraExtra struct {
	ID            string
	InstitucionID string
	ProfesorID    string
	Fecha         time.Time
	Horas         float64
	Concepto      string
	Estado        string // pendiente, aprobada, rechazada
	AprobadaPor   string // usuario id, set when estado leaves pendiente
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Suplencia and hora extra estados.
const (
	EstadoPendiente  = "pendiente"
	EstadoAprobada   = "aprobada"
	EstadoRechazada  = "rechazada"
	EstadoFinalizada = "finalizada"
)

// ValidEstado reports whether estado is a known workflow state.
func ValidEstado(estado string) bool {
	switch estado {
	case EstadoPendiente, EstadoAprobada, EstadoRechazada, EstadoFinalizada:
		return true
	}
	return false
}
