package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type profesoresRepo struct {
	db dbtx
}

const profesorColumns = `id, institucion_id, documento, nombres, apellidos, email, telefono,
	area, escalafon, activo, created_at, updated_at`

func scanProfesor(row interface{ Scan(...any) error }) (domain.Profesor, error) {
	var p domain.Profesor
	err := row.Scan(&p.ID, &p.InstitucionID, &p.Documento, &p.Nombres, &p.Apellidos,
		&p.Email, &p.Telefono, &p.Area, &p.Escalafon, &p.Activo, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *profesoresRepo) CreateProfesor(ctx context.Context, p domain.Profesor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profesores (id, institucion_id, documento, nombres, apellidos, email,
		 telefono, area, escalafon, activo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InstitucionID, p.Documento, p.Nombres, p.Apellidos, p.Email,
		p.Telefono, p.Area, p.Escalafon, p.Activo)
	return mapConflict(err)
}

func (r *profesoresRepo) GetProfesorByID(ctx context.Context, id string) (domain.Profesor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profesorColumns+` FROM profesores WHERE id = ?`, id)
	p, err := scanProfesor(row)
	if err != nil {
		return domain.Profesor{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profesoresRepo) ListProfesores(ctx context.Context, institucionID string) ([]domain.Profesor, error) {
	query := `SELECT ` + profesorColumns + ` FROM profesores`
	var args []any
	if institucionID != "" {
		query += ` WHERE institucion_id = ?`
		args = append(args, institucionID)
	}
	query += ` ORDER BY apellidos, nombres`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profesor
	for rows.Next() {
		p, err := scanProfesor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profesoresRepo) UpdateProfesor(ctx context.Context, p domain.Profesor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profesores
		 SET institucion_id = ?, documento = ?, nombres = ?, apellidos = ?, email = ?,
		     telefono = ?, area = ?, escalafon = ?, activo = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.InstitucionID, p.Documento, p.Nombres, p.Apellidos, p.Email,
		p.Telefono, p.Area, p.Escalafon, p.Activo, p.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *profesoresRepo) DeleteProfesor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profesores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
