package domain

import "errors"

var (
	// ErrNotFound signals a missing vehicle (by id or matrícula).
	ErrNotFound = errors.New("vehículo no encontrado")
	// ErrDuplicateMatricula signals a matrícula uniqueness violation.
	ErrDuplicateMatricula = errors.New("matrícula duplicada")
	// ErrValidation signals a field constraint violation.
	ErrValidation = errors.New("validación fallida")
	// ErrUnknownTipo signals a value outside the TipoVehiculo enumeration.
	ErrUnknownTipo = errors.New("tipo de vehículo desconocido")
)
