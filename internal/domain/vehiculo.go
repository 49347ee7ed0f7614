package domain

import (
	"fmt"
	"time"
)

// TipoVehiculo is the fixed classification of a vehicle.
type TipoVehiculo string

const (
	TipoCoche     TipoVehiculo = "COCHE"
	TipoMoto      TipoVehiculo = "MOTO"
	TipoCamion    TipoVehiculo = "CAMION"
	TipoFurgoneta TipoVehiculo = "FURGONETA"
	TipoSUV       TipoVehiculo = "SUV"
)

// Tipos lists every declared TipoVehiculo value.
func Tipos() []TipoVehiculo {
	return []TipoVehiculo{TipoCoche, TipoMoto, TipoCamion, TipoFurgoneta, TipoSUV}
}

// ParseTipo converts a textual value into a TipoVehiculo.
func ParseTipo(s string) (TipoVehiculo, error) {
	switch TipoVehiculo(s) {
	case TipoCoche, TipoMoto, TipoCamion, TipoFurgoneta, TipoSUV:
		return TipoVehiculo(s), nil
	}
	return "", fmt.Errorf("tipo %q: %w", s, ErrUnknownTipo)
}

// Year bounds accepted for a vehicle.
const (
	MinAño = 1900
	MaxAño = 2030
)

// Vehiculo is the single domain entity. ID is assigned by the store on
// first persist; timestamps are owned by the service layer.
type Vehiculo struct {
	ID                 string
	Marca              string
	Modelo             string
	Matricula          string
	Año                int
	Color              string
	Precio             float64
	Tipo               TipoVehiculo
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}

// Validate checks the field constraints: required fields non-empty, year
// and price within range, tipo inside the enumeration.
func (v *Vehiculo) Validate() error {
	if v.Marca == "" {
		return fmt.Errorf("la marca es obligatoria: %w", ErrValidation)
	}
	if v.Modelo == "" {
		return fmt.Errorf("el modelo es obligatorio: %w", ErrValidation)
	}
	if v.Matricula == "" {
		return fmt.Errorf("la matrícula es obligatoria: %w", ErrValidation)
	}
	if v.Año < MinAño || v.Año > MaxAño {
		return fmt.Errorf("el año debe estar entre %d y %d: %w", MinAño, MaxAño, ErrValidation)
	}
	if v.Color == "" {
		return fmt.Errorf("el color es obligatorio: %w", ErrValidation)
	}
	if v.Precio < 0 {
		return fmt.Errorf("el precio debe ser mayor o igual a 0: %w", ErrValidation)
	}
	if _, err := ParseTipo(string(v.Tipo)); err != nil {
		return fmt.Errorf("%w: %w", err, ErrValidation)
	}
	return nil
}
