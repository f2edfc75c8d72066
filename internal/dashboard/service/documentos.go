package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/idx"
)

var ErrDocumentoNotFound = errors.New("documento_not_found")

// DocumentosService stores uploaded files on disk under Dir, keyed by the
// record's ULID, with the metadata row in the store. The two are written
// file-first so a crash can leave an orphaned file but never a metadata row
// pointing at nothing.
type DocumentosService struct {
	Store store.Store
	Dir   string
}

func (s *DocumentosService) path(id string) string {
	return filepath.Join(s.Dir, id)
}

// Upload drains r to disk and records the metadata.
func (s *DocumentosService) Upload(ctx context.Context, d domain.Documento, r io.Reader) (domain.Documento, error) {
	d.Nombre = filepath.Base(strings.TrimSpace(d.Nombre))
	if d.InstitucionID == "" || d.Nombre == "" || d.Nombre == "." {
		return domain.Documento{}, ErrInvalidRegistro
	}
	if d.ContentType == "" {
		d.ContentType = "application/octet-stream"
	}
	d.ID = idx.New().String()

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return domain.Documento{}, err
	}

	f, err := os.OpenFile(s.path(d.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return domain.Documento{}, err
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(s.path(d.ID))
		return domain.Documento{}, fmt.Errorf("write documento: %w", err)
	}
	d.SizeBytes = size

	if err := s.Store.Documentos().CreateDocumento(ctx, d); err != nil {
		_ = os.Remove(s.path(d.ID))
		return domain.Documento{}, mapRegistroErr(err)
	}
	return s.Get(ctx, d.ID)
}

func (s *DocumentosService) Get(ctx context.Context, id string) (domain.Documento, error) {
	d, err := s.Store.Documentos().GetDocumentoByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Documento{}, ErrDocumentoNotFound
	}
	return d, err
}

func (s *DocumentosService) List(ctx context.Context, institucionID string) ([]domain.Documento, error) {
	return s.Store.Documentos().ListDocumentos(ctx, institucionID)
}

// Open returns the metadata plus a reader over the stored bytes. The caller
// closes the reader.
func (s *DocumentosService) Open(ctx context.Context, id string) (domain.Documento, io.ReadCloser, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.Documento{}, nil, err
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Documento{}, nil, ErrDocumentoNotFound
		}
		return domain.Documento{}, nil, err
	}
	return d, f, nil
}

// Delete removes the metadata row first, then the file; a missing file is
// not an error.
func (s *DocumentosService) Delete(ctx context.Context, id string) error {
	err := s.Store.Documentos().DeleteDocumento(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrDocumentoNotFound
	}
	if err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
