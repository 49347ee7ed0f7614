package vehiculo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motorpark/vehiculos/internal/domain"
)

// facetResult is the shape of the single $facet stage output.
type facetResult struct {
	Total  []countResult `bson:"total"`
	Marcas []groupCount  `bson:"marcas"`
	Tipos  []groupCount  `bson:"tipos"`
	Precio []avgResult   `bson:"precio"`
}

type countResult struct {
	N int64 `bson:"n"`
}

type groupCount struct {
	ID string `bson:"_id"`
	N  int64  `bson:"n"`
}

type avgResult struct {
	Media *float64 `bson:"media"`
}

// Estadisticas computes the collection summary in one aggregation pass:
// the total, the per-marca and per-tipo counts and the mean price all
// come from the same snapshot.
func (r *Repo) Estadisticas(ctx context.Context) (domain.Estadisticas, error) {
	group := func(field string) bson.A {
		return bson.A{bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
			{Key: "marcas", Value: group(fieldMarca)},
			{Key: "tipos", Value: group(fieldTipo)},
			{Key: "precio", Value: bson.A{bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "media", Value: bson.D{{Key: "$avg", Value: "$" + fieldPrecio}}},
			}}}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Estadisticas{}, fmt.Errorf("aggregate estadísticas: %w", err)
	}

	var results []facetResult
	if err := cursor.All(ctx, &results); err != nil {
		return domain.Estadisticas{}, fmt.Errorf("decode estadísticas: %w", err)
	}
	if len(results) == 0 {
		return estadisticasFromFacet(facetResult{}), nil
	}
	return estadisticasFromFacet(results[0]), nil
}

// estadisticasFromFacet converts the raw facet output into the domain
// summary. An empty collection yields zero counts and a zero mean.
func estadisticasFromFacet(fr facetResult) domain.Estadisticas {
	stats := domain.Estadisticas{
		Marcas: make(map[string]int64, len(fr.Marcas)),
		Tipos:  make(map[string]int64, len(fr.Tipos)),
	}
	if len(fr.Total) > 0 {
		stats.TotalVehiculos = fr.Total[0].N
	}
	for _, g := range fr.Marcas {
		stats.Marcas[g.ID] = g.N
	}
	for _, g := range fr.Tipos {
		stats.Tipos[g.ID] = g.N
	}
	if len(fr.Precio) > 0 && fr.Precio[0].Media != nil {
		stats.PrecioPromedio = *fr.Precio[0].Media
	}
	return stats
}
