package domain

import "time"

type Institucion struct {
	ID         string
	Nombre     string
	CodigoDANE string // national establishment code, unique
	Municipio  string
	Direccion  string
	Telefono   string
	RectorID   string // optional reference to the rector in charge
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
