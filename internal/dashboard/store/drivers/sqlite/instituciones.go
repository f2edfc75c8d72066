package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type institucionesRepo struct {
	db dbtx
}

const institucionColumns = `id, nombre, codigo_dane, municipio, direccion, telefono, rector_id, created_at, updated_at`

func scanInstitucion(row interface{ Scan(...any) error }) (domain.Institucion, error) {
	var i domain.Institucion
	err := row.Scan(&i.ID, &i.Nombre, &i.CodigoDANE, &i.Municipio, &i.Direccion,
		&i.Telefono, &i.RectorID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *institucionesRepo) CreateInstitucion(ctx context.Context, i domain.Institucion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instituciones (id, nombre, codigo_dane, municipio, direccion, telefono, rector_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Nombre, i.CodigoDANE, i.Municipio, i.Direccion, i.Telefono, i.RectorID)
	return mapConflict(err)
}

func (r *institucionesRepo) GetInstitucionByID(ctx context.Context, id string) (domain.Institucion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+institucionColumns+` FROM instituciones WHERE id = ?`, id)
	i, err := scanInstitucion(row)
	if err != nil {
		return domain.Institucion{}, mapNotFound(err)
	}
	return i, nil
}

func (r *institucionesRepo) ListInstituciones(ctx context.Context) ([]domain.Institucion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+institucionColumns+` FROM instituciones ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Institucion
	for rows.Next() {
		i, err := scanInstitucion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *institucionesRepo) UpdateInstitucion(ctx context.Context, i domain.Institucion) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE instituciones
		 SET nombre = ?, codigo_dane = ?, municipio = ?, direccion = ?, telefono = ?, rector_id = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		i.Nombre, i.CodigoDANE, i.Municipio, i.Direccion, i.Telefono, i.RectorID, i.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *institucionesRepo) DeleteInstitucion(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM instituciones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
