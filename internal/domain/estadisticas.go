package domain

// Estadisticas is the summary computed over a single snapshot of the
// collection: the three group counts and the mean are consistent with
// each other.
type Estadisticas struct {
	TotalVehiculos int64
	Marcas         map[string]int64
	Tipos          map[string]int64
	PrecioPromedio float64
}
