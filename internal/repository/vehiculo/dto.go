package vehiculo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motorpark/vehiculos/internal/domain"
)

// vehiculoDoc is the persisted document shape. Stored field names equal
// the wire names, including the verbatim "año".
type vehiculoDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Marca              string             `bson:"marca"`
	Modelo             string             `bson:"modelo"`
	Matricula          string             `bson:"matricula"`
	Año                int                `bson:"año"`
	Color              string             `bson:"color"`
	Precio             float64            `bson:"precio"`
	Tipo               string             `bson:"tipo"`
	FechaCreacion      time.Time          `bson:"fecha_creacion"`
	FechaActualizacion time.Time          `bson:"fecha_actualizacion"`
}

func toDoc(v *domain.Vehiculo) vehiculoDoc {
	doc := vehiculoDoc{
		Marca:              v.Marca,
		Modelo:             v.Modelo,
		Matricula:          v.Matricula,
		Año:                v.Año,
		Color:              v.Color,
		Precio:             v.Precio,
		Tipo:               string(v.Tipo),
		FechaCreacion:      v.FechaCreacion,
		FechaActualizacion: v.FechaActualizacion,
	}
	if oid, err := primitive.ObjectIDFromHex(v.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func fromDoc(d vehiculoDoc) domain.Vehiculo {
	return domain.Vehiculo{
		ID:                 d.ID.Hex(),
		Marca:              d.Marca,
		Modelo:             d.Modelo,
		Matricula:          d.Matricula,
		Año:                d.Año,
		Color:              d.Color,
		Precio:             d.Precio,
		Tipo:               domain.TipoVehiculo(d.Tipo),
		FechaCreacion:      d.FechaCreacion,
		FechaActualizacion: d.FechaActualizacion,
	}
}
