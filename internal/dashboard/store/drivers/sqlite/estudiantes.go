package sqlite

import (
	"context"
	"database/sql"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type estudiantesRepo struct {
	db dbtx
}

const estudianteColumns = `id, institucion_id, documento, tipo_documento, nombres, apellidos,
	grado, sede, fecha_nacimiento, acudiente, telefono, activo, created_at, updated_at`

func scanEstudiante(row interface{ Scan(...any) error }) (domain.Estudiante, error) {
	var (
		e     domain.Estudiante
		fecha sql.NullTime
	)
	err := row.Scan(&e.ID, &e.InstitucionID, &e.Documento, &e.TipoDocumento,
		&e.Nombres, &e.Apellidos, &e.Grado, &e.Sede, &fecha,
		&e.Acudiente, &e.Telefono, &e.Activo, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Estudiante{}, err
	}
	e.FechaNacimiento = mapNullTimePtr(fecha)
	return e, nil
}

func (r *estudiantesRepo) CreateEstudiante(ctx context.Context, e domain.Estudiante) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO estudiantes (id, institucion_id, documento, tipo_documento, nombres, apellidos,
		 grado, sede, fecha_nacimiento, acudiente, telefono, activo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.InstitucionID, e.Documento, e.TipoDocumento, e.Nombres, e.Apellidos,
		e.Grado, e.Sede, mapOptionalTime(e.FechaNacimiento), e.Acudiente, e.Telefono, e.Activo)
	return mapConflict(err)
}

func (r *estudiantesRepo) GetEstudianteByID(ctx context.Context, id string) (domain.Estudiante, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+estudianteColumns+` FROM estudiantes WHERE id = ?`, id)
	e, err := scanEstudiante(row)
	if err != nil {
		return domain.Estudiante{}, mapNotFound(err)
	}
	return e, nil
}

func (r *estudiantesRepo) ListEstudiantes(ctx context.Context, institucionID string) ([]domain.Estudiante, error) {
	query := `SELECT ` + estudianteColumns + ` FROM estudiantes`
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

	var out []domain.Estudiante
	for rows.Next() {
		e, err := scanEstudiante(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *estudiantesRepo) UpdateEstudiante(ctx context.Context, e domain.Estudiante) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE estudiantes
		 SET institucion_id = ?, documento = ?, tipo_documento = ?, nombres = ?, apellidos = ?,
		     grado = ?, sede = ?, fecha_nacimiento = ?, acudiente = ?, telefono = ?, activo = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.InstitucionID, e.Documento, e.TipoDocumento, e.Nombres, e.Apellidos,
		e.Grado, e.Sede, mapOptionalTime(e.FechaNacimiento), e.Acudiente, e.Telefono, e.Activo, e.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *estudiantesRepo) DeleteEstudiante(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM estudiantes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
