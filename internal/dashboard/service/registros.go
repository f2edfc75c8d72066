package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/idx"
)

var (
	ErrRegistroNotFound = errors.New("registro_not_found")
	ErrRegistroConflict = errors.New("registro_conflict")
	ErrInvalidRegistro  = errors.New("invalid_registro")
	ErrInvalidEstado    = errors.New("invalid_estado")
	ErrInvalidRango     = errors.New("invalid_date_range")
)

// RegistrosService is the CRUD surface over the school-administration
// collections. Handlers stay thin; id assignment and field validation
// happen here.
type RegistrosService struct {
	Store store.Store
}

func mapRegistroErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrRegistroNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrRegistroConflict
	}
	return err
}

// Instituciones

func (s *RegistrosService) CreateInstitucion(ctx context.Context, i domain.Institucion) (domain.Institucion, error) {
	i.Nombre = strings.TrimSpace(i.Nombre)
	i.CodigoDANE = strings.TrimSpace(i.CodigoDANE)
	if i.Nombre == "" || i.CodigoDANE == "" {
		return domain.Institucion{}, ErrInvalidRegistro
	}
	i.ID = idx.New().String()
	if err := s.Store.Instituciones().CreateInstitucion(ctx, i); err != nil {
		return domain.Institucion{}, mapRegistroErr(err)
	}
	return s.GetInstitucion(ctx, i.ID)
}

func (s *RegistrosService) GetInstitucion(ctx context.Context, id string) (domain.Institucion, error) {
	i, err := s.Store.Instituciones().GetInstitucionByID(ctx, id)
	return i, mapRegistroErr(err)
}

func (s *RegistrosService) ListInstituciones(ctx context.Context) ([]domain.Institucion, error) {
	return s.Store.Instituciones().ListInstituciones(ctx)
}

func (s *RegistrosService) UpdateInstitucion(ctx context.Context, i domain.Institucion) (domain.Institucion, error) {
	if strings.TrimSpace(i.Nombre) == "" || strings.TrimSpace(i.CodigoDANE) == "" {
		return domain.Institucion{}, ErrInvalidRegistro
	}
	if err := s.Store.Instituciones().UpdateInstitucion(ctx, i); err != nil {
		return domain.Institucion{}, mapRegistroErr(err)
	}
	return s.GetInstitucion(ctx, i.ID)
}

func (s *RegistrosService) DeleteInstitucion(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Instituciones().DeleteInstitucion(ctx, id))
}

// Estudiantes

func (s *RegistrosService) CreateEstudiante(ctx context.Context, e domain.Estudiante) (domain.Estudiante, error) {
	if e.InstitucionID == "" || strings.TrimSpace(e.Documento) == "" ||
		strings.TrimSpace(e.Nombres) == "" || strings.TrimSpace(e.Apellidos) == "" {
		return domain.Estudiante{}, ErrInvalidRegistro
	}
	e.ID = idx.New().String()
	if err := s.Store.Estudiantes().CreateEstudiante(ctx, e); err != nil {
		return domain.Estudiante{}, mapRegistroErr(err)
	}
	return s.GetEstudiante(ctx, e.ID)
}

func (s *RegistrosService) GetEstudiante(ctx context.Context, id string) (domain.Estudiante, error) {
	e, err := s.Store.Estudiantes().GetEstudianteByID(ctx, id)
	return e, mapRegistroErr(err)
}

func (s *RegistrosService) ListEstudiantes(ctx context.Context, institucionID string) ([]domain.Estudiante, error) {
	return s.Store.Estudiantes().ListEstudiantes(ctx, institucionID)
}

func (s *RegistrosService) UpdateEstudiante(ctx context.Context, e domain.Estudiante) (domain.Estudiante, error) {
	if err := s.Store.Estudiantes().UpdateEstudiante(ctx, e); err != nil {
		return domain.Estudiante{}, mapRegistroErr(err)
	}
	return s.GetEstudiante(ctx, e.ID)
}

func (s *RegistrosService) DeleteEstudiante(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Estudiantes().DeleteEstudiante(ctx, id))
}

// Profesores

func (s *RegistrosService) CreateProfesor(ctx context.Context, p domain.Profesor) (domain.Profesor, error) {
	if p.InstitucionID == "" || strings.TrimSpace(p.Documento) == "" ||
		strings.TrimSpace(p.Nombres) == "" || strings.TrimSpace(p.Apellidos) == "" {
		return domain.Profesor{}, ErrInvalidRegistro
	}
	p.ID = idx.New().String()
	if err := s.Store.Profesores().CreateProfesor(ctx, p); err != nil {
		return domain.Profesor{}, mapRegistroErr(err)
	}
	return s.GetProfesor(ctx, p.ID)
}

func (s *RegistrosService) GetProfesor(ctx context.Context, id string) (domain.Profesor, error) {
	p, err := s.Store.Profesores().GetProfesorByID(ctx, id)
	return p, mapRegistroErr(err)
}

func (s *RegistrosService) ListProfesores(ctx context.Context, institucionID string) ([]domain.Profesor, error) {
	return s.Store.Profesores().ListProfesores(ctx, institucionID)
}

func (s *RegistrosService) UpdateProfesor(ctx context.Context, p domain.Profesor) (domain.Profesor, error) {
	if err := s.Store.Profesores().UpdateProfesor(ctx, p); err != nil {
		return domain.Profesor{}, mapRegistroErr(err)
	}
	return s.GetProfesor(ctx, p.ID)
}

func (s *RegistrosService) DeleteProfesor(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Profesores().DeleteProfesor(ctx, id))
}

// Rectores

func (s *RegistrosService) CreateRector(ctx context.Context, r domain.Rector) (domain.Rector, error) {
	if r.InstitucionID == "" || strings.TrimSpace(r.Documento) == "" ||
		strings.TrimSpace(r.Nombres) == "" || strings.TrimSpace(r.Apellidos) == "" {
		return domain.Rector{}, ErrInvalidRegistro
	}
	r.ID = idx.New().String()
	if err := s.Store.Rectores().CreateRector(ctx, r); err != nil {
		return domain.Rector{}, mapRegistroErr(err)
	}
	return s.GetRector(ctx, r.ID)
}

func (s *RegistrosService) GetRector(ctx context.Context, id string) (domain.Rector, error) {
	r, err := s.Store.Rectores().GetRectorByID(ctx, id)
	return r, mapRegistroErr(err)
}

func (s *RegistrosService) ListRectores(ctx context.Context, institucionID string) ([]domain.Rector, error) {
	return s.Store.Rectores().ListRectores(ctx, institucionID)
}

func (s *RegistrosService) UpdateRector(ctx context.Context, r domain.Rector) (domain.Rector, error) {
	if err := s.Store.Rectores().UpdateRector(ctx, r); err != nil {
		return domain.Rector{}, mapRegistroErr(err)
	}
	return s.GetRector(ctx, r.ID)
}

func (s *RegistrosService) DeleteRector(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Rectores().DeleteRector(ctx, id))
}

// Suplencias

func (s *RegistrosService) CreateSuplencia(ctx context.Context, sup domain.Suplencia) (domain.Suplencia, error) {
	if sup.InstitucionID == "" || sup.ProfesorAusenteID == "" || sup.ProfesorSuplenteID == "" {
		return domain.Suplencia{}, ErrInvalidRegistro
	}
	if sup.FechaFin.Before(sup.FechaInicio) {
		return domain.Suplencia{}, ErrInvalidRango
	}
	if sup.Estado == "" {
		sup.Estado = domain.EstadoPendiente
	}
	if !domain.ValidEstado(sup.Estado) {
		return domain.Suplencia{}, ErrInvalidEstado
	}
	sup.ID = idx.New().String()
	if err := s.Store.Suplencias().CreateSuplencia(ctx, sup); err != nil {
		return domain.Suplencia{}, mapRegistroErr(err)
	}
	return s.GetSuplencia(ctx, sup.ID)
}

func (s *RegistrosService) GetSuplencia(ctx context.Context, id string) (domain.Suplencia, error) {
	sup, err := s.Store.Suplencias().GetSuplenciaByID(ctx, id)
	return sup, mapRegistroErr(err)
}

func (s *RegistrosService) ListSuplencias(ctx context.Context, institucionID string) ([]domain.Suplencia, error) {
	return s.Store.Suplencias().ListSuplencias(ctx, institucionID)
}

func (s *RegistrosService) UpdateSuplencia(ctx context.Context, sup domain.Suplencia) (domain.Suplencia, error) {
	if !domain.ValidEstado(sup.Estado) {
		return domain.Suplencia{}, ErrInvalidEstado
	}
	if sup.FechaFin.Before(sup.FechaInicio) {
		return domain.Suplencia{}, ErrInvalidRango
	}
	if err := s.Store.Suplencias().UpdateSuplencia(ctx, sup); err != nil {
		return domain.Suplencia{}, mapRegistroErr(err)
	}
	return s.GetSuplencia(ctx, sup.ID)
}

func (s *RegistrosService) DeleteSuplencia(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Suplencias().DeleteSuplencia(ctx, id))
}

// Horas extra

func (s *RegistrosService) CreateHoraExtra(ctx context.Context, h domain.HoraExtra) (domain.HoraExtra, error) {
	if h.InstitucionID == "" || h.ProfesorID == "" || h.Horas <= 0 {
		return domain.HoraExtra{}, ErrInvalidRegistro
	}
	if h.Fecha.IsZero() {
		h.Fecha = time.Now()
	}
	h.Estado = domain.EstadoPendiente
	h.AprobadaPor = ""
	h.ID = idx.New().String()
	if err := s.Store.HorasExtra().CreateHoraExtra(ctx, h); err != nil {
		return domain.HoraExtra{}, mapRegistroErr(err)
	}
	return s.GetHoraExtra(ctx, h.ID)
}

func (s *RegistrosService) GetHoraExtra(ctx context.Context, id string) (domain.HoraExtra, error) {
	h, err := s.Store.HorasExtra().GetHoraExtraByID(ctx, id)
	return h, mapRegistroErr(err)
}

func (s *RegistrosService) ListHorasExtra(ctx context.Context, institucionID string) ([]domain.HoraExtra, error) {
	return s.Store.HorasExtra().ListHorasExtra(ctx, institucionID)
}

// ResolverHoraExtra moves a pending overtime record to aprobada/rechazada,
// stamping the approving usuario. The pendiente check and the write share a
// transaction so two concurrent resolvers cannot both win.
func (s *RegistrosService) ResolverHoraExtra(ctx context.Context, id, estado, aprobadaPor string) (domain.HoraExtra, error) {
	if estado != domain.EstadoAprobada && estado != domain.EstadoRechazada {
		return domain.HoraExtra{}, ErrInvalidEstado
	}

	var out domain.HoraExtra
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		h, err := tx.HorasExtra().GetHoraExtraByID(ctx, id)
		if err != nil {
			return err
		}
		if h.Estado != domain.EstadoPendiente {
			return ErrInvalidEstado
		}
		h.Estado = estado
		h.AprobadaPor = aprobadaPor
		if err := tx.HorasExtra().UpdateHoraExtra(ctx, h); err != nil {
			return err
		}
		out, err = tx.HorasExtra().GetHoraExtraByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.HoraExtra{}, mapRegistroErr(err)
	}
	return out, nil
}

func (s *RegistrosService) DeleteHoraExtra(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.HorasExtra().DeleteHoraExtra(ctx, id))
}

// PAE

func (s *RegistrosService) CreatePAE(ctx context.Context, p domain.PAE) (domain.PAE, error) {
	if p.InstitucionID == "" || p.EstudianteID == "" || strings.TrimSpace(p.TipoBeneficio) == "" {
		return domain.PAE{}, ErrInvalidRegistro
	}
	if p.FechaInicio.IsZero() {
		p.FechaInicio = time.Now()
	}
	if p.FechaFin != nil && p.FechaFin.Before(p.FechaInicio) {
		return domain.PAE{}, ErrInvalidRango
	}
	p.ID = idx.New().String()
	if err := s.Store.PAE().CreatePAE(ctx, p); err != nil {
		return domain.PAE{}, mapRegistroErr(err)
	}
	return s.GetPAE(ctx, p.ID)
}

func (s *RegistrosService) GetPAE(ctx context.Context, id string) (domain.PAE, error) {
	p, err := s.Store.PAE().GetPAEByID(ctx, id)
	return p, mapRegistroErr(err)
}

func (s *RegistrosService) ListPAE(ctx context.Context, institucionID string) ([]domain.PAE, error) {
	return s.Store.PAE().ListPAE(ctx, institucionID)
}

func (s *RegistrosService) UpdatePAE(ctx context.Context, p domain.PAE) (domain.PAE, error) {
	if p.FechaFin != nil && p.FechaFin.Before(p.FechaInicio) {
		return domain.PAE{}, ErrInvalidRango
	}
	if err := s.Store.PAE().UpdatePAE(ctx, p); err != nil {
		return domain.PAE{}, mapRegistroErr(err)
	}
	return s.GetPAE(ctx, p.ID)
}

func (s *RegistrosService) DeletePAE(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.PAE().DeletePAE(ctx, id))
}

// Transporte

func (s *RegistrosService) CreateTransporte(ctx context.Context, t domain.Transporte) (domain.Transporte, error) {
	if t.InstitucionID == "" || strings.TrimSpace(t.Ruta) == "" || t.Capacidad < 0 {
		return domain.Transporte{}, ErrInvalidRegistro
	}
	if t.Asignados > t.Capacidad {
		return domain.Transporte{}, ErrInvalidRegistro
	}
	t.ID = idx.New().String()
	if err := s.Store.Transporte().CreateTransporte(ctx, t); err != nil {
		return domain.Transporte{}, mapRegistroErr(err)
	}
	return s.GetTransporte(ctx, t.ID)
}

func (s *RegistrosService) GetTransporte(ctx context.Context, id string) (domain.Transporte, error) {
	t, err := s.Store.Transporte().GetTransporteByID(ctx, id)
	return t, mapRegistroErr(err)
}

func (s *RegistrosService) ListTransporte(ctx context.Context, institucionID string) ([]domain.Transporte, error) {
	return s.Store.Transporte().ListTransporte(ctx, institucionID)
}

func (s *RegistrosService) UpdateTransporte(ctx context.Context, t domain.Transporte) (domain.Transporte, error) {
	if t.Asignados > t.Capacidad {
		return domain.Transporte{}, ErrInvalidRegistro
	}
	if err := s.Store.Transporte().UpdateTransporte(ctx, t); err != nil {
		return domain.Transporte{}, mapRegistroErr(err)
	}
	return s.GetTransporte(ctx, t.ID)
}

func (s *RegistrosService) DeleteTransporte(ctx context.Context, id string) error {
	return mapRegistroErr(s.Store.Transporte().DeleteTransporte(ctx, id))
}
