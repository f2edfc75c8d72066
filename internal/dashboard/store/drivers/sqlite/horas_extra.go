package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type horasExtraRepo struct {
	db dbtx
}

const horaExtraColumns = `id, institucion_id, profesor_id, fecha, horas, concepto,
	estado, aprobada_por, created_at, updated_at`

func scanHoraExtra(row interface{ Scan(...any) error }) (domain.HoraExtra, error) {
	var h domain.HoraExtra
	err := row.Scan(&h.ID, &h.InstitucionID, &h.ProfesorID, &h.Fecha, &h.Horas,
		&h.Concepto, &h.Estado, &h.AprobadaPor, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *horasExtraRepo) CreateHoraExtra(ctx context.Context, h domain.HoraExtra) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO horas_extra (id, institucion_id, profesor_id, fecha, horas, concepto, estado, aprobada_por)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.InstitucionID, h.ProfesorID, h.Fecha, h.Horas, h.Concepto, h.Estado, h.AprobadaPor)
	return mapConflict(err)
}

func (r *horasExtraRepo) GetHoraExtraByID(ctx context.Context, id string) (domain.HoraExtra, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+horaExtraColumns+` FROM horas_extra WHERE id = ?`, id)
	h, err := scanHoraExtra(row)
	if err != nil {
		return domain.HoraExtra{}, mapNotFound(err)
	}
	return h, nil
}

func (r *horasExtraRepo) ListHorasExtra(ctx context.Context, institucionID string) ([]domain.HoraExtra, error) {
	query := `SELECT ` + horaExtraColumns + ` FROM horas_extra`
	var args []any
	if institucionID != "" {
		query += ` WHERE institucion_id = ?`
		args = append(args, institucionID)
	}
	query += ` ORDER BY fecha DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HoraExtra
	for rows.Next() {
		h, err := scanHoraExtra(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *horasExtraRepo) UpdateHoraExtra(ctx context.Context, h domain.HoraExtra) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE horas_extra
		 SET institucion_id = ?, profesor_id = ?, fecha = ?, horas = ?, concepto = ?,
		     estado = ?, aprobada_por = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		h.InstitucionID, h.ProfesorID, h.Fecha, h.Horas, h.Concepto,
		h.Estado, h.AprobadaPor, h.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *horasExtraRepo) DeleteHoraExtra(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM horas_extra WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
