package vehiculo

import (
	"context"

	"github.com/motorpark/vehiculos/internal/domain"
)

// Repository is the store contract the service depends on.
type Repository interface {
	Insert(ctx context.Context, v *domain.Vehiculo) (domain.Vehiculo, error)
	Replace(ctx context.Context, id string, v *domain.Vehiculo) (domain.Vehiculo, error)
	FindByID(ctx context.Context, id string) (domain.Vehiculo, error)
	FindByMatricula(ctx context.Context, matricula string) (domain.Vehiculo, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByMatricula(ctx context.Context, matricula string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByMatricula(ctx context.Context, matricula string) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]domain.Vehiculo, error)
	FindByMarca(ctx context.Context, marca string) ([]domain.Vehiculo, error)
	FindByTipo(ctx context.Context, tipo domain.TipoVehiculo) ([]domain.Vehiculo, error)
	FindByAñoDesde(ctx context.Context, año int) ([]domain.Vehiculo, error)
	FindByPrecioEntre(ctx context.Context, min, max float64) ([]domain.Vehiculo, error)
	FindByPrecioMayorQue(ctx context.Context, precio float64) ([]domain.Vehiculo, error)
	FindByMarcaYModelo(ctx context.Context, marca, modelo string) ([]domain.Vehiculo, error)
	FindByColor(ctx context.Context, color string) ([]domain.Vehiculo, error)
	Query(ctx context.Context, c domain.Criteria) ([]domain.Vehiculo, error)
	Estadisticas(ctx context.Context) (domain.Estadisticas, error)
}
