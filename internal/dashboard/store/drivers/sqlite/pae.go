package sqlite

import (
	"context"
	"database/sql"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type paeRepo struct {
	db dbtx
}

const paeColumns = `id, institucion_id, estudiante_id, tipo_beneficio, fecha_inicio,
	fecha_fin, activo, created_at, updated_at`

func scanPAE(row interface{ Scan(...any) error }) (domain.PAE, error) {
	var (
		p   domain.PAE
		fin sql.NullTime
	)
	err := row.Scan(&p.ID, &p.InstitucionID, &p.EstudianteID, &p.TipoBeneficio,
		&p.FechaInicio, &fin, &p.Activo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.PAE{}, err
	}
	p.FechaFin = mapNullTimePtr(fin)
	return p, nil
}

func (r *paeRepo) CreatePAE(ctx context.Context, p domain.PAE) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pae (id, institucion_id, estudiante_id, tipo_beneficio, fecha_inicio, fecha_fin, activo)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InstitucionID, p.EstudianteID, p.TipoBeneficio, p.FechaInicio,
		mapOptionalTime(p.FechaFin), p.Activo)
	return mapConflict(err)
}

func (r *paeRepo) GetPAEByID(ctx context.Context, id string) (domain.PAE, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paeColumns+` FROM pae WHERE id = ?`, id)
	p, err := scanPAE(row)
	if err != nil {
		return domain.PAE{}, mapNotFound(err)
	}
	return p, nil
}

func (r *paeRepo) ListPAE(ctx context.Context, institucionID string) ([]domain.PAE, error) {
	query := `SELECT ` + paeColumns + ` FROM pae`
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

	var out []domain.PAE
	for rows.Next() {
		p, err := scanPAE(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paeRepo) UpdatePAE(ctx context.Context, p domain.PAE) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pae
		 SET institucion_id = ?, estudiante_id = ?, tipo_beneficio = ?, fecha_inicio = ?,
		     fecha_fin = ?, activo = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.InstitucionID, p.EstudianteID, p.TipoBeneficio, p.FechaInicio,
		mapOptionalTime(p.FechaFin), p.Activo, p.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *paeRepo) DeletePAE(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pae WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
