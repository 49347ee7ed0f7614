package vehiculo

import (
	"context"
	"fmt"

	"github.com/motorpark/vehiculos/internal/domain"
)

// seedVehiculos is the representative data set inserted into a fresh
// database.
var seedVehiculos = []domain.Vehiculo{
	{Marca: "Toyota", Modelo: "Corolla", Matricula: "ABC123", Año: 2022, Color: "Rojo", Precio: 25000.0, Tipo: domain.TipoCoche},
	{Marca: "Honda", Modelo: "Civic", Matricula: "DEF456", Año: 2023, Color: "Azul", Precio: 27000.0, Tipo: domain.TipoCoche},
	{Marca: "Yamaha", Modelo: "MT-07", Matricula: "GHI789", Año: 2021, Color: "Negro", Precio: 8000.0, Tipo: domain.TipoMoto},
	{Marca: "Ford", Modelo: "Ranger", Matricula: "JKL012", Año: 2020, Color: "Blanco", Precio: 35000.0, Tipo: domain.TipoCamion},
	{Marca: "Volkswagen", Modelo: "Transporter", Matricula: "MNO345", Año: 2019, Color: "Gris", Precio: 30000.0, Tipo: domain.TipoFurgoneta},
	{Marca: "BMW", Modelo: "X5", Matricula: "PQR678", Año: 2023, Color: "Negro", Precio: 65000.0, Tipo: domain.TipoSUV},
}

// Seed inserts the bundled vehicles when the collection is empty and
// returns how many it inserted. A non-empty collection is left
// untouched.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count before seed: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i := range seedVehiculos {
		v := seedVehiculos[i]
		if _, err := s.Create(ctx, &v); err != nil {
			return i, fmt.Errorf("seed %s %s: %w", v.Marca, v.Modelo, err)
		}
	}
	return len(seedVehiculos), nil
}
