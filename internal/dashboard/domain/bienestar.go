package domain

import "time"

// PAE is a student's meal-benefit record (Programa de Alimentación Escolar).
type PAE struct {
	ID            string
	InstitucionID string
	EstudianteID  string
	TipoBeneficio string // desayuno, almuerzo, refrigerio
	FechaInicio   time.Time
	FechaFin      *time.Time // nil while the benefit is open-ended
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Transporte is a school transport route record.
type Transporte struct {
	ID            string
	InstitucionID string
	Ruta          string
	Conductor     string
	Placa         string // vehicle plate
	Capacidad     int
	Asignados     int // students currently assigned to the route
	Activo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
