package service

import (
	"context"
	"testing"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func seedInstitucion(t *testing.T, svc *RegistrosService, codigoDANE string) domain.Institucion {
	t.Helper()

	i, err := svc.CreateInstitucion(context.Background(), domain.Institucion{
		Nombre:     "IE La Esperanza",
		CodigoDANE: codigoDANE,
		Municipio:  "Sincelejo",
	})
	require.NoError(t, err)
	return i
}

func seedProfesor(t *testing.T, svc *RegistrosService, institucionID, documento string) domain.Profesor {
	t.Helper()

	p, err := svc.CreateProfesor(context.Background(), domain.Profesor{
		InstitucionID: institucionID,
		Documento:     documento,
		Nombres:       "Carlos",
		Apellidos:     "Mendoza",
		Area:          "matemáticas",
		Activo:        true,
	})
	require.NoError(t, err)
	return p
}

func newRegistrosService(t *testing.T) (*RegistrosService, *sqlite.Store) {
	t.Helper()
	st := newTestStore(t)
	return &RegistrosService{Store: st}, st
}

func TestInstitucionCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	created := seedInstitucion(t, svc, "270001000001")
	require.NotEmpty(t, created.ID)
	require.Equal(t, "IE La Esperanza", created.Nombre)

	t.Run("duplicate codigo dane conflicts", func(t *testing.T) {
		_, err := svc.CreateInstitucion(ctx, domain.Institucion{
			Nombre:     "Otra IE",
			CodigoDANE: "270001000001",
		})
		require.ErrorIs(t, err, ErrRegistroConflict)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := svc.CreateInstitucion(ctx, domain.Institucion{Nombre: "Sin código"})
		require.ErrorIs(t, err, ErrInvalidRegistro)
	})

	t.Run("update persists", func(t *testing.T) {
		created.Telefono = "3001234567"
		updated, err := svc.UpdateInstitucion(ctx, created)
		require.NoError(t, err)
		require.Equal(t, "3001234567", updated.Telefono)
	})

	t.Run("list includes record", func(t *testing.T) {
		list, err := svc.ListInstituciones(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		require.NoError(t, svc.DeleteInstitucion(ctx, created.ID))
		_, err := svc.GetInstitucion(ctx, created.ID)
		require.ErrorIs(t, err, ErrRegistroNotFound)
	})
}

func TestEstudianteFiltersByInstitucion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	a := seedInstitucion(t, svc, "270001000001")
	b := seedInstitucion(t, svc, "270001000002")

	_, err := svc.CreateEstudiante(ctx, domain.Estudiante{
		InstitucionID: a.ID, Documento: "1100000001", Nombres: "Ana", Apellidos: "Pérez", Grado: "7B", Activo: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateEstudiante(ctx, domain.Estudiante{
		InstitucionID: b.ID, Documento: "1100000002", Nombres: "Luis", Apellidos: "Gómez", Grado: "11A", Activo: true,
	})
	require.NoError(t, err)

	filtered, err := svc.ListEstudiantes(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Ana", filtered[0].Nombres)

	all, err := svc.ListEstudiantes(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSuplenciaValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	inst := seedInstitucion(t, svc, "270001000001")
	ausente := seedProfesor(t, svc, inst.ID, "79000001")
	suplente := seedProfesor(t, svc, inst.ID, "79000002")

	inicio := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("fecha fin before inicio rejected", func(t *testing.T) {
		_, err := svc.CreateSuplencia(ctx, domain.Suplencia{
			InstitucionID:      inst.ID,
			ProfesorAusenteID:  ausente.ID,
			ProfesorSuplenteID: suplente.ID,
			FechaInicio:        inicio,
			FechaFin:           inicio.AddDate(0, 0, -1),
		})
		require.ErrorIs(t, err, ErrInvalidRango)
	})

	t.Run("defaults to pendiente", func(t *testing.T) {
		sup, err := svc.CreateSuplencia(ctx, domain.Suplencia{
			InstitucionID:      inst.ID,
			ProfesorAusenteID:  ausente.ID,
			ProfesorSuplenteID: suplente.ID,
			Motivo:             "licencia médica",
			FechaInicio:        inicio,
			FechaFin:           inicio.AddDate(0, 0, 14),
		})
		require.NoError(t, err)
		require.Equal(t, domain.EstadoPendiente, sup.Estado)
	})

	t.Run("unknown estado rejected on update", func(t *testing.T) {
		sup, err := svc.CreateSuplencia(ctx, domain.Suplencia{
			InstitucionID:      inst.ID,
			ProfesorAusenteID:  ausente.ID,
			ProfesorSuplenteID: suplente.ID,
			FechaInicio:        inicio,
			FechaFin:           inicio.AddDate(0, 0, 7),
		})
		require.NoError(t, err)

		sup.Estado = "cancelada"
		_, err = svc.UpdateSuplencia(ctx, sup)
		require.ErrorIs(t, err, ErrInvalidEstado)
	})
}

func TestResolverHoraExtra(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	inst := seedInstitucion(t, svc, "270001000001")
	prof := seedProfesor(t, svc, inst.ID, "79000001")

	h, err := svc.CreateHoraExtra(ctx, domain.HoraExtra{
		InstitucionID: inst.ID,
		ProfesorID:    prof.ID,
		Horas:         4,
		Concepto:      "nivelación sabatina",
	})
	require.NoError(t, err)
	require.Equal(t, domain.EstadoPendiente, h.Estado)
	require.Empty(t, h.AprobadaPor)

	t.Run("rejects non-terminal estado", func(t *testing.T) {
		_, err := svc.ResolverHoraExtra(ctx, h.ID, domain.EstadoPendiente, "admin-1")
		require.ErrorIs(t, err, ErrInvalidEstado)
	})

	t.Run("approves and stamps the approver", func(t *testing.T) {
		resolved, err := svc.ResolverHoraExtra(ctx, h.ID, domain.EstadoAprobada, "admin-1")
		require.NoError(t, err)
		require.Equal(t, domain.EstadoAprobada, resolved.Estado)
		require.Equal(t, "admin-1", resolved.AprobadaPor)
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		_, err := svc.ResolverHoraExtra(ctx, h.ID, domain.EstadoRechazada, "admin-2")
		require.ErrorIs(t, err, ErrInvalidEstado)

		// The losing attempt must not overwrite the terminal state.
		got, err := svc.GetHoraExtra(ctx, h.ID)
		require.NoError(t, err)
		require.Equal(t, domain.EstadoAprobada, got.Estado)
		require.Equal(t, "admin-1", got.AprobadaPor)
	})

	t.Run("concurrent resolvers cannot both win", func(t *testing.T) {
		rec, err := svc.CreateHoraExtra(ctx, domain.HoraExtra{
			InstitucionID: inst.ID,
			ProfesorID:    prof.ID,
			Horas:         2,
			Concepto:      "jornada extendida",
		})
		require.NoError(t, err)

		errs := make(chan error, 2)
		for _, estado := range []string{domain.EstadoAprobada, domain.EstadoRechazada} {
			estado := estado
			go func() {
				_, err := svc.ResolverHoraExtra(ctx, rec.ID, estado, "admin-"+estado)
				errs <- err
			}()
		}

		wins := 0
		for i := 0; i < 2; i++ {
			if <-errs == nil {
				wins++
			}
		}
		require.LessOrEqual(t, wins, 1, "only one resolver may observe pendiente")

		got, err := svc.GetHoraExtra(ctx, rec.ID)
		require.NoError(t, err)
		if wins == 1 {
			require.NotEqual(t, domain.EstadoPendiente, got.Estado)
			require.Equal(t, "admin-"+got.Estado, got.AprobadaPor)
		}
	})

	t.Run("zero horas rejected", func(t *testing.T) {
		_, err := svc.CreateHoraExtra(ctx, domain.HoraExtra{
			InstitucionID: inst.ID,
			ProfesorID:    prof.ID,
			Horas:         0,
		})
		require.ErrorIs(t, err, ErrInvalidRegistro)
	})
}

func TestTransporteCapacidad(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	inst := seedInstitucion(t, svc, "270001000001")

	t.Run("asignados above capacidad rejected on create", func(t *testing.T) {
		_, err := svc.CreateTransporte(ctx, domain.Transporte{
			InstitucionID: inst.ID,
			Ruta:          "Quibdó - Tutunendo",
			Conductor:     "José Palacios",
			Capacidad:     30,
			Asignados:     31,
		})
		require.ErrorIs(t, err, ErrInvalidRegistro)
	})

	t.Run("full route is still valid", func(t *testing.T) {
		tr, err := svc.CreateTransporte(ctx, domain.Transporte{
			InstitucionID: inst.ID,
			Ruta:          "Quibdó - Tutunendo",
			Conductor:     "José Palacios",
			Capacidad:     30,
			Asignados:     30,
			Activo:        true,
		})
		require.NoError(t, err)
		require.Equal(t, 30, tr.Asignados)

		tr.Asignados = 31
		_, err = svc.UpdateTransporte(ctx, tr)
		require.ErrorIs(t, err, ErrInvalidRegistro)

		// The rejected update must not have touched the stored route.
		got, err := svc.GetTransporte(ctx, tr.ID)
		require.NoError(t, err)
		require.Equal(t, 30, got.Asignados)
	})
}

func TestPAEOpenEndedBenefit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistrosService(t)

	inst := seedInstitucion(t, svc, "270001000001")
	est, err := svc.CreateEstudiante(ctx, domain.Estudiante{
		InstitucionID: inst.ID, Documento: "1100000001", Nombres: "Ana", Apellidos: "Pérez", Activo: true,
	})
	require.NoError(t, err)

	p, err := svc.CreatePAE(ctx, domain.PAE{
		InstitucionID: inst.ID,
		EstudianteID:  est.ID,
		TipoBeneficio: "almuerzo",
		FechaInicio:   time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		Activo:        true,
	})
	require.NoError(t, err)
	require.Nil(t, p.FechaFin)

	fin := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	p.FechaFin = &fin
	updated, err := svc.UpdatePAE(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, updated.FechaFin)
	require.True(t, updated.FechaFin.Equal(fin))
}
