package vehiculo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motorpark/vehiculos/internal/domain"
)

// Repo implements usecase/vehiculo.Repository over a Mongo collection.
// It enforces no business invariants beyond what the unique matrícula
// index gives it, and never touches the timestamps on its own.
type Repo struct {
	coll *mongo.Collection
}

// New creates a vehicle repository.
func New(coll *mongo.Collection) *Repo {
	return &Repo{coll: coll}
}

// Insert persists a new vehicle, assigning an id. A unique-index
// rejection surfaces as ErrDuplicateMatricula: the index is the
// authoritative guard, regardless of any advisory check upstream.
func (r *Repo) Insert(ctx context.Context, v *domain.Vehiculo) (domain.Vehiculo, error) {
	doc := toDoc(v)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Vehiculo{}, fmt.Errorf("matrícula %s: %w", v.Matricula, domain.ErrDuplicateMatricula)
		}
		return domain.Vehiculo{}, fmt.Errorf("insert vehicle: %w", err)
	}
	return fromDoc(doc), nil
}

// Replace overwrites the document with the given id.
func (r *Repo) Replace(ctx context.Context, id string, v *domain.Vehiculo) (domain.Vehiculo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Vehiculo{}, fmt.Errorf("id %s: %w", id, domain.ErrNotFound)
	}

	doc := toDoc(v)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Vehiculo{}, fmt.Errorf("matrícula %s: %w", v.Matricula, domain.ErrDuplicateMatricula)
		}
		return domain.Vehiculo{}, fmt.Errorf("replace vehicle %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.Vehiculo{}, fmt.Errorf("id %s: %w", id, domain.ErrNotFound)
	}
	return fromDoc(doc), nil
}

// FindByID returns the vehicle with the given id.
func (r *Repo) FindByID(ctx context.Context, id string) (domain.Vehiculo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Vehiculo{}, fmt.Errorf("id %s: %w", id, domain.ErrNotFound)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "id "+id)
}

// FindByMatricula returns the vehicle with the given matrícula, served
// by the unique matrícula index.
func (r *Repo) FindByMatricula(ctx context.Context, matricula string) (domain.Vehiculo, error) {
	return r.findOne(ctx, filterByMatricula(matricula), "matrícula "+matricula)
}

func (r *Repo) findOne(ctx context.Context, filter bson.D, what string) (domain.Vehiculo, error) {
	var doc vehiculoDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Vehiculo{}, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return domain.Vehiculo{}, fmt.Errorf("find vehicle (%s): %w", what, err)
	}
	return fromDoc(doc), nil
}

// DeleteByID removes the vehicle with the given id, reporting whether a
// document was actually removed.
func (r *Repo) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, fmt.Errorf("delete vehicle %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteByMatricula removes the vehicle with the given matrícula.
func (r *Repo) DeleteByMatricula(ctx context.Context, matricula string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, filterByMatricula(matricula))
	if err != nil {
		return false, fmt.Errorf("delete vehicle by matrícula %s: %w", matricula, err)
	}
	return res.DeletedCount > 0, nil
}

// ExistsByID reports whether a vehicle with the given id is stored.
func (r *Repo) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return r.exists(ctx, bson.D{{Key: "_id", Value: oid}})
}

// ExistsByMatricula reports whether a vehicle with the given matrícula
// is stored.
func (r *Repo) ExistsByMatricula(ctx context.Context, matricula string) (bool, error) {
	return r.exists(ctx, filterByMatricula(matricula))
}

func (r *Repo) exists(ctx context.Context, filter bson.D) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count vehicles: %w", err)
	}
	return n > 0, nil
}

// Count returns the total number of stored vehicles.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

// ListAll returns every vehicle, newest creation first.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Vehiculo, error) {
	return r.find(ctx, bson.D{}, sortByFechaCreacionDesc())
}

// FindByMarca returns the vehicles of one marca.
func (r *Repo) FindByMarca(ctx context.Context, marca string) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByMarca(marca), nil)
}

// FindByTipo returns the vehicles of one tipo.
func (r *Repo) FindByTipo(ctx context.Context, tipo domain.TipoVehiculo) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByTipo(tipo), nil)
}

// FindByAñoDesde returns vehicles with año >= the given year, newest
// first.
func (r *Repo) FindByAñoDesde(ctx context.Context, año int) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByAñoDesde(año), sortByAñoDesc())
}

// FindByPrecioEntre returns vehicles with min <= precio <= max,
// cheapest first.
func (r *Repo) FindByPrecioEntre(ctx context.Context, min, max float64) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByPrecioEntre(min, max), sortByPrecioAsc())
}

// FindByPrecioMayorQue returns vehicles priced strictly above the given
// value, cheapest first.
func (r *Repo) FindByPrecioMayorQue(ctx context.Context, precio float64) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByPrecioMayorQue(precio), sortByPrecioAsc())
}

// FindByMarcaYModelo returns vehicles matching both marca and modelo,
// newest first.
func (r *Repo) FindByMarcaYModelo(ctx context.Context, marca, modelo string) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByMarcaYModelo(marca, modelo), sortByAñoDesc())
}

// FindByColor matches the colour case-insensitively as a substring.
func (r *Repo) FindByColor(ctx context.Context, color string) ([]domain.Vehiculo, error) {
	return r.find(ctx, filterByColor(color), nil)
}

// Query runs the composed advanced-search query, ordered año descending
// then precio ascending.
func (r *Repo) Query(ctx context.Context, c domain.Criteria) ([]domain.Vehiculo, error) {
	return r.find(ctx, buildCriteriaFilter(c), sortAvanzada())
}

func (r *Repo) find(ctx context.Context, filter bson.D, sort bson.D) ([]domain.Vehiculo, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find vehicles: %w", err)
	}

	var docs []vehiculoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}

	out := make([]domain.Vehiculo, len(docs))
	for i, d := range docs {
		out[i] = fromDoc(d)
	}
	return out, nil
}
