package repository

import (
	"context"

	"dinoco-api/internal/db"
	"dinoco-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DecisionTraceRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewDecisionTraceRepository(database *mongo.Database) *DecisionTraceRepository {
	col := database.Collection(db.ColDecisionTraces)
	return &DecisionTraceRepository{col: col, seq: newSequence(database, col, "traceId")}
}

// Insert asigna el traceId y guarda la traza.
func (r *DecisionTraceRepository) Insert(ctx context.Context, t *models.DecisionTrace) error {
	id, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	t.TraceID = id
	_, err = r.col.InsertOne(ctx, t)
	return wrapInsertErr(err)
}

// ListByMovie devuelve las trazas más recientes de la película.
func (r *DecisionTraceRepository) ListByMovie(ctx context.Context, movieID, limit int) ([]models.DecisionTrace, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "traceId", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"movieId": movieID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.DecisionTrace{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUserWithTitle trae las trazas del usuario junto al título de la película.
func (r *DecisionTraceRepository) ListByUserWithTitle(ctx context.Context, userID, limit int) ([]models.DecisionTraceWithTitle, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "traceId", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColMovies},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "movieId"},
			{Key: "as", Value: "movie"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "title", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$movie.title"}}, "",
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "movie", Value: 0}, {Key: "_id", Value: 0}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.DecisionTraceWithTitle{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DecisionTraceRepository) DeleteByMovie(ctx context.Context, movieID int) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
