package sqlite

import (
	"context"
	"database/sql"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

type usuariosRepo struct {
	db dbtx
}

const usuarioColumns = `id, email, nombre, password_hash, rol, mfa_enabled, mfa_secret, created_at, updated_at`

func scanUsuario(row interface{ Scan(...any) error }) (domain.Usuario, error) {
	var (
		u          domain.Usuario
		mfaEnabled sql.NullTime
		mfaSecret  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Nombre, &u.PasswordHash, &u.Rol,
		&mfaEnabled, &mfaSecret, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.Usuario{}, err
	}
	u.MFAEnabled = mapNullTimePtr(mfaEnabled)
	u.MFASecret = mapNullStringPtr(mfaSecret)
	return u, nil
}

func (r *usuariosRepo) GetUsuarioByID(ctx context.Context, id string) (domain.Usuario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+usuarioColumns+` FROM usuarios WHERE id = ?`, id)
	u, err := scanUsuario(row)
	if err != nil {
		return domain.Usuario{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usuariosRepo) GetUsuarioByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+usuarioColumns+` FROM usuarios WHERE email = ?`, email)
	u, err := scanUsuario(row)
	if err != nil {
		return domain.Usuario{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usuariosRepo) CreateUsuario(ctx context.Context, u domain.Usuario) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (id, email, nombre, password_hash, rol) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Nombre, u.PasswordHash, u.Rol)
	return mapConflict(err)
}

func (r *usuariosRepo) ListUsuarios(ctx context.Context) ([]domain.Usuario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+usuarioColumns+` FROM usuarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usuariosRepo) UpdatePerfil(ctx context.Context, usuarioID, nombre, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET nombre = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nombre, email, usuarioID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(res)
}

func (r *usuariosRepo) UpdatePasswordHash(ctx context.Context, usuarioID, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newHash, usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) UpdateRol(ctx context.Context, usuarioID, rol string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET rol = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rol, usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) UpdateMFASecret(ctx context.Context, usuarioID, secret string) error {
	var val sql.NullString
	if secret != "" {
		val = sql.NullString{String: secret, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET mfa_secret = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		val, usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) EnableMFA(ctx context.Context, usuarioID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET mfa_enabled = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) DisableMFA(ctx context.Context, usuarioID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios SET mfa_enabled = NULL, mfa_secret = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) DeleteUsuario(ctx context.Context, usuarioID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, usuarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usuariosRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
