package vehiculo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motorpark/vehiculos/internal/domain"
)

// Stored field names, shared by filters, sorts and index definitions.
const (
	fieldMarca         = "marca"
	fieldModelo        = "modelo"
	fieldMatricula     = "matricula"
	fieldAño           = "año"
	fieldColor         = "color"
	fieldPrecio        = "precio"
	fieldTipo          = "tipo"
	fieldFechaCreacion = "fecha_creacion"
)

func filterByMatricula(matricula string) bson.D {
	return bson.D{{Key: fieldMatricula, Value: matricula}}
}

func filterByMarca(marca string) bson.D {
	return bson.D{{Key: fieldMarca, Value: marca}}
}

func filterByTipo(tipo domain.TipoVehiculo) bson.D {
	return bson.D{{Key: fieldTipo, Value: string(tipo)}}
}

func filterByAñoDesde(año int) bson.D {
	return bson.D{{Key: fieldAño, Value: bson.D{{Key: "$gte", Value: año}}}}
}

func filterByPrecioEntre(min, max float64) bson.D {
	return bson.D{{Key: fieldPrecio, Value: bson.D{
		{Key: "$gte", Value: min},
		{Key: "$lte", Value: max},
	}}}
}

func filterByPrecioMayorQue(precio float64) bson.D {
	return bson.D{{Key: fieldPrecio, Value: bson.D{{Key: "$gt", Value: precio}}}}
}

func filterByMarcaYModelo(marca, modelo string) bson.D {
	return bson.D{
		{Key: fieldMarca, Value: marca},
		{Key: fieldModelo, Value: modelo},
	}
}

// filterByColor matches the colour case-insensitively, anchored nowhere.
// This shape is a collection scan.
func filterByColor(color string) bson.D {
	return bson.D{{Key: fieldColor, Value: primitive.Regex{Pattern: color, Options: "i"}}}
}

// buildCriteriaFilter composes the advanced-search filter. Equality
// predicates come first (marca, tipo) so the document order matches the
// compound advanced index prefix; a range dimension participates only
// when both of its bounds are present. With no predicate at all the
// result is the empty filter, i.e. the unrestricted listing.
func buildCriteriaFilter(c domain.Criteria) bson.D {
	filter := bson.D{}
	if c.HasMarca() {
		filter = append(filter, bson.E{Key: fieldMarca, Value: c.Marca})
	}
	if c.Tipo != nil {
		filter = append(filter, bson.E{Key: fieldTipo, Value: string(*c.Tipo)})
	}
	if c.HasAñoRange() {
		filter = append(filter, bson.E{Key: fieldAño, Value: bson.D{
			{Key: "$gte", Value: *c.AñoMin},
			{Key: "$lte", Value: *c.AñoMax},
		}})
	}
	if c.HasPrecioRange() {
		filter = append(filter, bson.E{Key: fieldPrecio, Value: bson.D{
			{Key: "$gte", Value: *c.PrecioMin},
			{Key: "$lte", Value: *c.PrecioMax},
		}})
	}
	return filter
}

func sortByFechaCreacionDesc() bson.D {
	return bson.D{{Key: fieldFechaCreacion, Value: -1}}
}

func sortByAñoDesc() bson.D {
	return bson.D{{Key: fieldAño, Value: -1}}
}

func sortByPrecioAsc() bson.D {
	return bson.D{{Key: fieldPrecio, Value: 1}}
}

// sortAvanzada orders advanced-search results newest first, then
// cheapest first.
func sortAvanzada() bson.D {
	return bson.D{
		{Key: fieldAño, Value: -1},
		{Key: fieldPrecio, Value: 1},
	}
}
