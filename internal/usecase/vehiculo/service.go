package vehiculo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/motorpark/vehiculos/internal/domain"
)

// Service owns the timestamps, the advisory matrícula-uniqueness checks
// and the advanced-search composition. The unique index in the store
// remains the authoritative guard against concurrent duplicate inserts.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a vehicle service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and persists a new vehicle, setting both timestamps.
func (s *Service) Create(ctx context.Context, v *domain.Vehiculo) (domain.Vehiculo, error) {
	if err := v.Validate(); err != nil {
		return domain.Vehiculo{}, err
	}

	exists, err := s.repo.ExistsByMatricula(ctx, v.Matricula)
	if err != nil {
		return domain.Vehiculo{}, fmt.Errorf("check matrícula: %w", err)
	}
	if exists {
		return domain.Vehiculo{}, fmt.Errorf("matrícula %s: %w", v.Matricula, domain.ErrDuplicateMatricula)
	}

	now := s.now()
	v.ID = ""
	v.FechaCreacion = now
	v.FechaActualizacion = now

	created, err := s.repo.Insert(ctx, v)
	if err != nil {
		return domain.Vehiculo{}, err
	}
	return created, nil
}

// Update overwrites an existing vehicle. FechaCreacion is preserved from
// the stored document; the matrícula may change only to a value no other
// vehicle holds.
func (s *Service) Update(ctx context.Context, id string, v *domain.Vehiculo) (domain.Vehiculo, error) {
	if err := v.Validate(); err != nil {
		return domain.Vehiculo{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Vehiculo{}, err
	}

	other, err := s.repo.FindByMatricula(ctx, v.Matricula)
	switch {
	case err == nil && other.ID != id:
		return domain.Vehiculo{}, fmt.Errorf("matrícula %s: %w", v.Matricula, domain.ErrDuplicateMatricula)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return domain.Vehiculo{}, fmt.Errorf("check matrícula: %w", err)
	}

	v.ID = id
	v.FechaCreacion = existing.FechaCreacion
	v.FechaActualizacion = s.now()

	updated, err := s.repo.Replace(ctx, id, v)
	if err != nil {
		return domain.Vehiculo{}, err
	}
	return updated, nil
}

// DeleteByID removes a vehicle, reporting whether it was there.
func (s *Service) DeleteByID(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}

// DeleteByMatricula removes a vehicle by matrícula.
func (s *Service) DeleteByMatricula(ctx context.Context, matricula string) (bool, error) {
	return s.repo.DeleteByMatricula(ctx, matricula)
}

// GetByID returns one vehicle by id.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Vehiculo, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByMatricula returns one vehicle by matrícula.
func (s *Service) GetByMatricula(ctx context.Context, matricula string) (domain.Vehiculo, error) {
	return s.repo.FindByMatricula(ctx, matricula)
}

// ListAll returns every vehicle, newest creation first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Vehiculo, error) {
	return s.repo.ListAll(ctx)
}

// ByMarca returns the vehicles of one marca.
func (s *Service) ByMarca(ctx context.Context, marca string) ([]domain.Vehiculo, error) {
	return s.repo.FindByMarca(ctx, marca)
}

// ByTipo returns the vehicles of one tipo.
func (s *Service) ByTipo(ctx context.Context, tipo domain.TipoVehiculo) ([]domain.Vehiculo, error) {
	return s.repo.FindByTipo(ctx, tipo)
}

// ByAñoDesde returns vehicles with año >= the given year.
func (s *Service) ByAñoDesde(ctx context.Context, año int) ([]domain.Vehiculo, error) {
	return s.repo.FindByAñoDesde(ctx, año)
}

// ByPrecioEntre returns vehicles within the inclusive price range.
func (s *Service) ByPrecioEntre(ctx context.Context, min, max float64) ([]domain.Vehiculo, error) {
	return s.repo.FindByPrecioEntre(ctx, min, max)
}

// ByPrecioMayorQue returns vehicles priced strictly above the value.
func (s *Service) ByPrecioMayorQue(ctx context.Context, precio float64) ([]domain.Vehiculo, error) {
	return s.repo.FindByPrecioMayorQue(ctx, precio)
}

// ByMarcaYModelo returns vehicles matching both marca and modelo.
func (s *Service) ByMarcaYModelo(ctx context.Context, marca, modelo string) ([]domain.Vehiculo, error) {
	return s.repo.FindByMarcaYModelo(ctx, marca, modelo)
}

// ByColor matches the colour case-insensitively as a substring.
func (s *Service) ByColor(ctx context.Context, color string) ([]domain.Vehiculo, error) {
	return s.repo.FindByColor(ctx, color)
}

// Count returns the total number of stored vehicles.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// BusquedaAvanzada runs the composed multi-criterion query. With every
// component absent it degenerates to the unrestricted listing.
func (s *Service) BusquedaAvanzada(ctx context.Context, c domain.Criteria) ([]domain.Vehiculo, error) {
	return s.repo.Query(ctx, c)
}

// Estadisticas returns the collection summary.
func (s *Service) Estadisticas(ctx context.Context) (domain.Estadisticas, error) {
	return s.repo.Estadisticas(ctx)
}
