package domain

import "time"

type Estudiante struct {
	ID              string
	InstitucionID   string
	Documento       string // national id number, unique
	TipoDocumento   string // TI, CC, RC
	Nombres         string
	Apellidos       string
	Grado           string // e.g. "7B", "11A"
	Sede            string
	FechaNacimiento *time.Time
	Acudiente       string // guardian contact name
	Telefono        string
	Activo          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
