package vehiculo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes is the index schema of the vehiculos collection.
// Each named query shape in the repository is served by one of these.
var collectionIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: fieldMatricula, Value: 1}},
		Options: options.Index().SetName("idx_matricula_unique").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: fieldMarca, Value: 1}},
		Options: options.Index().SetName("idx_marca"),
	},
	{
		Keys:    bson.D{{Key: fieldTipo, Value: 1}},
		Options: options.Index().SetName("idx_tipo"),
	},
	{
		Keys:    bson.D{{Key: fieldAño, Value: -1}},
		Options: options.Index().SetName("idx_año"),
	},
	{
		Keys:    bson.D{{Key: fieldPrecio, Value: 1}},
		Options: options.Index().SetName("idx_precio"),
	},
	{
		Keys:    bson.D{{Key: fieldColor, Value: 1}},
		Options: options.Index().SetName("idx_color"),
	},
	{
		Keys:    bson.D{{Key: fieldMarca, Value: 1}, {Key: fieldModelo, Value: 1}},
		Options: options.Index().SetName("idx_marca_modelo"),
	},
	{
		Keys:    bson.D{{Key: fieldTipo, Value: 1}, {Key: fieldPrecio, Value: 1}},
		Options: options.Index().SetName("idx_tipo_precio"),
	},
	{
		Keys:    bson.D{{Key: fieldMarca, Value: 1}, {Key: fieldAño, Value: -1}},
		Options: options.Index().SetName("idx_marca_año"),
	},
	{
		Keys:    bson.D{{Key: fieldFechaCreacion, Value: -1}},
		Options: options.Index().SetName("idx_fecha_creacion"),
	},
	{
		Keys: bson.D{
			{Key: fieldMarca, Value: 1},
			{Key: fieldTipo, Value: 1},
			{Key: fieldAño, Value: -1},
			{Key: fieldPrecio, Value: 1},
		},
		Options: options.Index().SetName("idx_busqueda_avanzada"),
	},
}

// existingIndex is the subset of a listed index spec we compare against.
type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

type indexAction int

const (
	indexCreate indexAction = iota
	indexSkip
	indexConflict
)

// EnsureIndexes inspects the existing indexes and creates the missing
// ones. Indexes already present with the expected definition are left
// untouched; definition conflicts are logged and the remaining indexes
// continue to be ensured. Per-index create failures are logged too; the
// caller treats any returned error as non-fatal.
func (r *Repo) EnsureIndexes(ctx context.Context, logger *zap.Logger) error {
	cursor, err := r.coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	var listed []existingIndex
	if err := cursor.All(ctx, &listed); err != nil {
		return fmt.Errorf("decode indexes: %w", err)
	}

	existing := make(map[string]existingIndex, len(listed))
	for _, idx := range listed {
		existing[idx.Name] = idx
	}

	for _, model := range collectionIndexes {
		name := *model.Options.Name
		switch classifyIndex(existing, model) {
		case indexSkip:
			continue
		case indexConflict:
			logger.Warn("index definition conflict, leaving existing index untouched",
				zap.String("index", name))
			continue
		case indexCreate:
			if _, err := r.coll.Indexes().CreateOne(ctx, model); err != nil {
				logger.Warn("failed to create index",
					zap.String("index", name), zap.Error(err))
				continue
			}
			logger.Info("created index", zap.String("index", name))
		}
	}
	return nil
}

// classifyIndex decides what to do with one desired index given the
// indexes already present on the collection.
func classifyIndex(existing map[string]existingIndex, model mongo.IndexModel) indexAction {
	name := *model.Options.Name
	current, ok := existing[name]
	if !ok {
		return indexCreate
	}

	wantUnique := model.Options.Unique != nil && *model.Options.Unique
	if current.Unique != wantUnique {
		return indexConflict
	}
	if !sameKeys(current.Key, model.Keys.(bson.D)) {
		return indexConflict
	}
	return indexSkip
}

// sameKeys compares index key documents field by field, in order. Listed
// key directions may decode as int32 or float64 depending on the server.
func sameKeys(got, want bson.D) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Key != want[i].Key {
			return false
		}
		if keyDirection(got[i].Value) != keyDirection(want[i].Value) {
			return false
		}
	}
	return true
}

func keyDirection(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
