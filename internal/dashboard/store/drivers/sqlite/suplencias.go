package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type suplenciasRepo struct {
	db dbtx
}

const suplenciaColumns = `id, institucion_id, profesor_ausente_id, profesor_suplente_id,
	motivo, fecha_inicio, fecha_fin, estado, created_at, updated_at`

func scanSuplencia(row interface{ Scan(...any) error }) (domain.Suplencia, error) {
	var s domain.Suplencia
	err := row.Scan(&s.ID, &s.InstitucionID, &s.ProfesorAusenteID, &s.ProfesorSuplenteID,
		&s.Motivo, &s.FechaInicio, &s.FechaFin, &s.Estado, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *suplenciasRepo) CreateSuplencia(ctx context.Context, s domain.Suplencia) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO suplencias (id, institucion_id, profesor_ausente_id, profesor_suplente_id,
		 motivo, fecha_inicio, fecha_fin, estado)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.InstitucionID, s.ProfesorAusenteID, s.ProfesorSuplenteID,
		s.Motivo, s.FechaInicio, s.FechaFin, s.Estado)
	return mapConflict(err)
}

func (r *suplenciasRepo) GetSuplenciaByID(ctx context.Context, id string) (domain.Suplencia, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+suplenciaColumns+` FROM suplencias WHERE id = ?`, id)
	s, err := scanSuplencia(row)
	if err != nil {
		return domain.Suplencia{}, mapNotFound(err)
	}
	return s, nil
}

func (r *suplenciasRepo) ListSuplencias(ctx context.Context, institucionID string) ([]domain.Suplencia, error) {
	query := `SELECT ` + suplenciaColumns + ` FROM suplencias`
	var args []any
	if institucionID != "" {
		query += ` WHERE institucion_id = ?`
		args = append(args, institucionID)
	}
	query += ` ORDER BY fecha_inicio DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Suplencia
	for rows.Next() {
		s, err := scanSuplencia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *suplenciasRepo) UpdateSuplencia(ctx context.Context, s domain.Suplencia) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE suplencias
		 SET institucion_id = ?, profesor_ausente_id = ?, profesor_suplente_id = ?, motivo = ?,
		     fecha_inicio = ?, fecha_fin = ?, estado = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.InstitucionID, s.ProfesorAusenteID, s.ProfesorSuplenteID, s.Motivo,
		s.FechaInicio, s.FechaFin, s.Estado, s.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *suplenciasRepo) DeleteSuplencia(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suplencias WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
