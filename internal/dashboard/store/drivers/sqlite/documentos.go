package sqlite

import (
	"context"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type documentosRepo struct {
	db dbtx
}

const documentoColumns = `id, institucion_id, nombre, categoria, content_type,
	size_bytes, subido_por, created_at, updated_at`

func scanDocumento(row interface{ Scan(...any) error }) (domain.Documento, error) {
	var d domain.Documento
	err := row.Scan(&d.ID, &d.InstitucionID, &d.Nombre, &d.Categoria, &d.ContentType,
		&d.SizeBytes, &d.SubidoPor, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *documentosRepo) CreateDocumento(ctx context.Context, d domain.Documento) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documentos (id, institucion_id, nombre, categoria, content_type, size_bytes, subido_por)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.InstitucionID, d.Nombre, d.Categoria, d.ContentType, d.SizeBytes, d.SubidoPor)
	return mapConflict(err)
}

func (r *documentosRepo) GetDocumentoByID(ctx context.Context, id string) (domain.Documento, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentoColumns+` FROM documentos WHERE id = ?`, id)
	d, err := scanDocumento(row)
	if err != nil {
		return domain.Documento{}, mapNotFound(err)
	}
	return d, nil
}

func (r *documentosRepo) ListDocumentos(ctx context.Context, institucionID string) ([]domain.Documento, error) {
	query := `SELECT ` + documentoColumns + ` FROM documentos`
	var args []any
	if institucionID != "" {
		query += ` WHERE institucion_id = ?`
		args = append(args, institucionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Documento
	for rows.Next() {
		d, err := scanDocumento(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *documentosRepo) DeleteDocumento(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documentos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
