package sqlite

import (
	"context"
	"database/sql"

	"github.com/colegiosoft/siged/internal/dashboard/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Usuarios() store.Usuarios           { return &usuariosRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) Instituciones() store.Instituciones { return &institucionesRepo{db: t.tx} }
func (t *txStore) Estudiantes() store.Estudiantes     { return &estudiantesRepo{db: t.tx} }
func (t *txStore) Profesores() store.Profesores       { return &profesoresRepo{db: t.tx} }
func (t *txStore) Rectores() store.Rectores           { return &rectoresRepo{db: t.tx} }
func (t *txStore) Suplencias() store.Suplencias       { return &suplenciasRepo{db: t.tx} }
func (t *txStore) HorasExtra() store.HorasExtra       { return &horasExtraRepo{db: t.tx} }
func (t *txStore) PAE() store.PAERepo                 { return &paeRepo{db: t.tx} }
func (t *txStore) Transporte() store.TransporteRepo   { return &transporteRepo{db: t.tx} }
func (t *txStore) Documentos() store.Documentos       { return &documentosRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts
