package store

import (
	"context"
	"errors"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable, and make
// it hard to accidentally nest transactions.
type Store interface {
	Usuarios() Usuarios
	RefreshTokens() RefreshTokens
	Instituciones() Instituciones
	Estudiantes() Estudiantes
	Profesores() Profesores
	Rectores() Rectores
	Suplencias() Suplencias
	HorasExtra() HorasExtra
	PAE() PAERepo
	Transporte() TransporteRepo
	Documentos() Documentos

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn inside a transaction: rollback when fn errors,
	// commit otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Usuarios interface {
	GetUsuarioByID(ctx context.Context, id string) (domain.Usuario, error)

	// GetUsuarioByEmail is used during login.
	GetUsuarioByEmail(ctx context.Context, email string) (domain.Usuario, error)

	// CreateUsuario inserts a new usuario (id is provided by the app via ULID).
	CreateUsuario(ctx context.Context, u domain.Usuario) error

	ListUsuarios(ctx context.Context) ([]domain.Usuario, error)

	// UpdatePerfil mutates nombre and email, bumps updated_at.
	UpdatePerfil(ctx context.Context, usuarioID, nombre, email string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, usuarioID, newHash string) error

	// UpdateRol changes the account role.
	UpdateRol(ctx context.Context, usuarioID, rol string) error

	// UpdateMFASecret stores a pending TOTP secret (empty clears it).
	UpdateMFASecret(ctx context.Context, usuarioID, secret string) error

	// EnableMFA stamps mfa_enabled; DisableMFA clears both MFA columns.
	EnableMFA(ctx context.Context, usuarioID string) error
	DisableMFA(ctx context.Context, usuarioID string) error

	// DeleteUsuario cascades to refresh_tokens (per schema).
	DeleteUsuario(ctx context.Context, usuarioID string) error

	// IsEmpty returns true if there are no usuarios (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by its stored fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1, sets updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUsuarioRefreshTokens bulk revocation for one account
	// (password change, admin lockout).
	RevokeAllUsuarioRefreshTokens(ctx context.Context, usuarioID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Instituciones interface {
	CreateInstitucion(ctx context.Context, i domain.Institucion) error
	GetInstitucionByID(ctx context.Context, id string) (domain.Institucion, error)
	ListInstituciones(ctx context.Context) ([]domain.Institucion, error)
	UpdateInstitucion(ctx context.Context, i domain.Institucion) error
	DeleteInstitucion(ctx context.Context, id string) error
}

type Estudiantes interface {
	CreateEstudiante(ctx context.Context, e domain.Estudiante) error
	GetEstudianteByID(ctx context.Context, id string) (domain.Estudiante, error)

	// ListEstudiantes filters by institucion when institucionID is non-empty.
	ListEstudiantes(ctx context.Context, institucionID string) ([]domain.Estudiante, error)
	UpdateEstudiante(ctx context.Context, e domain.Estudiante) error
	DeleteEstudiante(ctx context.Context, id string) error
}

type Profesores interface {
	CreateProfesor(ctx context.Context, p domain.Profesor) error
	GetProfesorByID(ctx context.Context, id string) (domain.Profesor, error)
	ListProfesores(ctx context.Context, institucionID string) ([]domain.Profesor, error)
	UpdateProfesor(ctx context.Context, p domain.Profesor) error
	DeleteProfesor(ctx context.Context, id string) error
}

type Rectores interface {
	CreateRector(ctx context.Context, r domain.Rector) error
	GetRectorByID(ctx context.Context, id string) (domain.Rector, error)
	ListRectores(ctx context.Context, institucionID string) ([]domain.Rector, error)
	UpdateRector(ctx context.Context, r domain.Rector) error
	DeleteRector(ctx context.Context, id string) error
}

type Suplencias interface {
	CreateSuplencia(ctx context.Context, s domain.Suplencia) error
	GetSuplenciaByID(ctx context.Context, id string) (domain.Suplencia, error)
	ListSuplencias(ctx context.Context, institucionID string) ([]domain.Suplencia, error)
	UpdateSuplencia(ctx context.Context, s domain.Suplencia) error
	DeleteSuplencia(ctx context.Context, id string) error
}

type HorasExtra interface {
	CreateHoraExtra(ctx context.Context, h domain.HoraExtra) error
	GetHoraExtraByID(ctx context.Context, id string) (domain.HoraExtra, error)
	ListHorasExtra(ctx context.Context, institucionID string) ([]domain.HoraExtra, error)
	UpdateHoraExtra(ctx context.Context, h domain.HoraExtra) error
	DeleteHoraExtra(ctx context.Context, id string) error
}

type PAERepo interface {
	CreatePAE(ctx context.Context, p domain.PAE) error
	GetPAEByID(ctx context.Context, id string) (domain.PAE, error)
	ListPAE(ctx context.Context, institucionID string) ([]domain.PAE, error)
	UpdatePAE(ctx context.Context, p domain.PAE) error
	DeletePAE(ctx context.Context, id string) error
}

type TransporteRepo interface {
	CreateTransporte(ctx context.Context, t domain.Transporte) error
	GetTransporteByID(ctx context.Context, id string) (domain.Transporte, error)
	ListTransporte(ctx context.Context, institucionID string) ([]domain.Transporte, error)
	UpdateTransporte(ctx context.Context, t domain.Transporte) error
	DeleteTransporte(ctx context.Context, id string) error
}

type Documentos interface {
	CreateDocumento(ctx context.Context, d domain.Documento) error
	GetDocumentoByID(ctx context.Context, id string) (domain.Documento, error)
	ListDocumentos(ctx context.Context, institucionID string) ([]domain.Documento, error)
	DeleteDocumento(ctx context.Context, id string) error
}
