package chi

import (
	"github.com/motorpark/vehiculos/internal/domain"
)

// timeLayout is the ISO-8601 local date-time wire format (no zone).
const timeLayout = "2006-01-02T15:04:05"

// vehiculoRequest is the JSON body accepted by POST and PUT. Clients
// never supply id or timestamps.
type vehiculoRequest struct {
	Marca     string  `json:"marca"`
	Modelo    string  `json:"modelo"`
	Matricula string  `json:"matricula"`
	Año       int     `json:"año"`
	Color     string  `json:"color"`
	Precio    float64 `json:"precio"`
	Tipo      string  `json:"tipo"`
}

func (r vehiculoRequest) toDomain() (domain.Vehiculo, error) {
	tipo, err := domain.ParseTipo(r.Tipo)
	if err != nil {
		return domain.Vehiculo{}, err
	}
	return domain.Vehiculo{
		Marca:     r.Marca,
		Modelo:    r.Modelo,
		Matricula: r.Matricula,
		Año:       r.Año,
		Color:     r.Color,
		Precio:    r.Precio,
		Tipo:      tipo,
	}, nil
}

// vehiculoResponse is the JSON representation of a stored vehicle.
type vehiculoResponse struct {
	ID                 string  `json:"id"`
	Marca              string  `json:"marca"`
	Modelo             string  `json:"modelo"`
	Matricula          string  `json:"matricula"`
	Año                int     `json:"año"`
	Color              string  `json:"color"`
	Precio             float64 `json:"precio"`
	Tipo               string  `json:"tipo"`
	FechaCreacion      string  `json:"fecha_creacion"`
	FechaActualizacion string  `json:"fecha_actualizacion"`
}

func toResponse(v domain.Vehiculo) vehiculoResponse {
	return vehiculoResponse{
		ID:                 v.ID,
		Marca:              v.Marca,
		Modelo:             v.Modelo,
		Matricula:          v.Matricula,
		Año:                v.Año,
		Color:              v.Color,
		Precio:             v.Precio,
		Tipo:               string(v.Tipo),
		FechaCreacion:      v.FechaCreacion.Format(timeLayout),
		FechaActualizacion: v.FechaActualizacion.Format(timeLayout),
	}
}

func toResponseList(vs []domain.Vehiculo) []vehiculoResponse {
	out := make([]vehiculoResponse, len(vs))
	for i, v := range vs {
		out[i] = toResponse(v)
	}
	return out
}

// estadisticasResponse is the summary-statistics payload.
type estadisticasResponse struct {
	TotalVehicles int64            `json:"totalVehicles"`
	Brands        map[string]int64 `json:"brands"`
	Kinds         map[string]int64 `json:"kinds"`
	AveragePrice  float64          `json:"averagePrice"`
}

func toEstadisticasResponse(e domain.Estadisticas) estadisticasResponse {
	return estadisticasResponse{
		TotalVehicles: e.TotalVehiculos,
		Brands:        e.Marcas,
		Kinds:         e.Tipos,
		AveragePrice:  e.PrecioPromedio,
	}
}
