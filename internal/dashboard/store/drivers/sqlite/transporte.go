package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type transporteRepo struct {
	db dbtx
}

const transporteColumns = `id, institucion_id, ruta, conductor, placa, capacidad,
	asignados, activo, created_at, updated_at`

func scanTransporte(row interface{ Scan(...any) error }) (domain.Transporte, error) {
	var t domain.Transporte
	err := row.Scan(&t.ID, &t.InstitucionID, &t.Ruta, &t.Conductor, &t.Placa,
		&t.Capacidad, &t.Asignados, &t.Activo, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *transporteRepo) CreateTransporte(ctx context.Context, t domain.Transporte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transporte (id, institucion_id, ruta, conductor, placa, capacidad, asignados, activo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.InstitucionID, t.Ruta, t.Conductor, t.Placa, t.Capacidad, t.Asignados, t.Activo)
	return mapConflict(err)
}

func (r *transporteRepo) GetTransporteByID(ctx context.Context, id string) (domain.Transporte, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transporteColumns+` FROM transporte WHERE id = ?`, id)
	t, err := scanTransporte(row)
	if err != nil {
		return domain.Transporte{}, mapNotFound(err)
	}
	return t, nil
}

func (r *transporteRepo) ListTransporte(ctx context.Context, institucionID string) ([]domain.Transporte, error) {
	query := `SELECT ` + transporteColumns + ` FROM transporte`
	var args []any
	if institucionID != "" {
		query += ` WHERE institucion_id = ?`
		args = append(args, institucionID)
	}
	query += ` ORDER BY ruta`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transporte
	for rows.Next() {
		t, err := scanTransporte(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transporteRepo) UpdateTransporte(ctx context.Context, t domain.Transporte) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transporte
		 SET institucion_id = ?, ruta = ?, conductor = ?, placa = ?, capacidad = ?,
		     asignados = ?, activo = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.InstitucionID, t.Ruta, t.Conductor, t.Placa, t.Capacidad,
		t.Asignados, t.Activo, t.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *transporteRepo) DeleteTransporte(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transporte WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
