package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate se devuelve cuando un insert choca con un índice único.
var ErrDuplicate = errors.New("duplicate key")

const colCounters = "counters"

// sequence entrega ids enteros crecientes para una colección. El contador se
// alinea primero con el máximo existente, así datos importados no chocan.
type sequence struct {
	counters *mongo.Collection
	target   *mongo.Collection
	name     string
	field    string
}

func newSequence(db *mongo.Database, target *mongo.Collection, field string) *sequence {
	return &sequence{
		counters: db.Collection(colCounters),
		target:   target,
		name:     target.Name(),
		field:    field,
	}
}

func (s *sequence) Next(ctx context.Context) (int, error) {
	maxID, err := s.currentMax(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": s.name},
		bson.M{"$max": bson.M{"seq": maxID}},
		options.Update().SetUpsert(true),
	); err != nil {
		return 0, fmt.Errorf("align counter %s: %w", s.name, err)
	}

	var doc struct {
		Seq int `bson:"seq"`
	}
	err = s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": s.name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return doc.Seq, nil
}

// currentMax es el "sort desc + limit 1" de siempre.
func (s *sequence) currentMax(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: s.field, Value: -1}}).
		SetProjection(bson.M{s.field: 1})
	var raw bson.M
	err := s.target.FindOne(ctx, bson.M{}, opts).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return asInt(raw[s.field]), nil
}

// helpers de casteo seguro
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func wrapInsertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
