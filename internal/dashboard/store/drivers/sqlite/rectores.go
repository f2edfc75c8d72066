package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type rectoresRepo struct {
	db dbtx
}

const rectorColumns = `id, institucion_id, documento, nombres, apellidos, email, telefono,
	resolucion, activo, created_at, updated_at`

func scanRector(row interface{ Scan(...any) error }) (domain.Rector, error) {
	var rec domain.Rector
	err := row.Scan(&rec.ID, &rec.InstitucionID, &rec.Documento, &rec.Nombres, &rec.Apellidos,
		&rec.Email, &rec.Telefono, &rec.Resolucion, &rec.Activo, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (r *rectoresRepo) CreateRector(ctx context.Context, rec domain.Rector) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rectores (id, institucion_id, documento, nombres, apellidos, email,
		 telefono, resolucion, activo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InstitucionID, rec.Documento, rec.Nombres, rec.Apellidos, rec.Email,
		rec.Telefono, rec.Resolucion, rec.Activo)
	return mapConflict(err)
}

func (r *rectoresRepo) GetRectorByID(ctx context.Context, id string) (domain.Rector, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+rectorColumns+` FROM rectores WHERE id = ?`, id)
	rec, err := scanRector(row)
	if err != nil {
		return domain.Rector{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *rectoresRepo) ListRectores(ctx context.Context, institucionID string) ([]domain.Rector, error) {
	query := `SELECT ` + rectorColumns + ` FROM rectores`
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

	var out []domain.Rector
	for rows.Next() {
		rec, err := scanRector(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *rectoresRepo) UpdateRector(ctx context.Context, rec domain.Rector) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rectores
		 SET institucion_id = ?, documento = ?, nombres = ?, apellidos = ?, email = ?,
		     telefono = ?, resolucion = ?, activo = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.InstitucionID, rec.Documento, rec.Nombres, rec.Apellidos, rec.Email,
		rec.Telefono, rec.Resolucion, rec.Activo, rec.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *rectoresRepo) DeleteRector(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rectores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
