// internal/repository/movie_repo.go
package repository

import (
	"context"
	"errors"
	"time"

	"dinoco-api/internal/db"
	"dinoco-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewMovieRepository(database *mongo.Database) *MovieRepository {
	col := database.Collection(db.ColMovies)
	return &MovieRepository{col: col, seq: newSequence(database, col, "movieId")}
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.Movie, error) {
	var m models.Movie
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List devuelve el catálogo completo, más nuevas primero.
func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "movieId", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// Filter aplica los filtros exactos (género, rango de años); el match por
// título se resuelve en el servicio.
func (r *MovieRepository) Filter(ctx context.Context, genre string, yearFrom, yearTo int) ([]models.Movie, error) {
	filter := bson.M{}
	if genre != "" {
		filter["genre"] = genre
	}
	if yearFrom > 0 || yearTo > 0 {
		yearCond := bson.M{}
		if yearFrom > 0 {
			yearCond["$gte"] = yearFrom
		}
		if yearTo > 0 {
			yearCond["$lte"] = yearTo
		}
		filter["releaseYear"] = yearCond
	}
	opts := options.Find().SetSort(bson.D{{Key: "movieId", Value: -1}})
	return r.find(ctx, filter, opts)
}

// Top por popularidad (count) o rating promedio
func (r *MovieRepository) Top(ctx context.Context, metric string, limit int) ([]models.Movie, error) {
	sortField := "ratingStats.count" // popular
	if metric == "rating" {
		sortField = "ratingStats.average"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "movieId", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// TopSummaries es el Top para el dashboard de admin, con mínimo de reviews.
func (r *MovieRepository) TopSummaries(ctx context.Context, metric string, minReviews, limit int) ([]models.MovieSummary, error) {
	filter := bson.M{}
	if minReviews > 0 {
		filter["ratingStats.count"] = bson.M{"$gte": minReviews}
	}
	sortField := "ratingStats.count"
	if metric == "rating" {
		sortField = "ratingStats.average"
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "movieId", Value: 1}}).
		SetLimit(int64(limit))

	movies, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		out = append(out, models.MovieSummary{
			MovieID:     m.MovieID,
			Title:       m.Title,
			PosterURL:   m.PosterURL,
			ReviewCount: m.ReviewCount(),
			AvgRating:   m.AvgRating(),
		})
	}
	return out, nil
}

// Catalog proyecta todas las películas a MovieAggregate para el motor de recomendación.
func (r *MovieRepository) Catalog(ctx context.Context) ([]models.MovieAggregate, error) {
	movies, err := r.find(ctx, bson.M{}, options.Find())
	if err != nil {
		return nil, err
	}
	out := make([]models.MovieAggregate, 0, len(movies))
	for i := range movies {
		out = append(out, movies[i].Aggregate())
	}
	return out, nil
}

func (r *MovieRepository) GetNextMovieID(ctx context.Context) (int, error) {
	return r.seq.Next(ctx)
}

func (r *MovieRepository) Insert(ctx context.Context, m *models.Movie) error {
	_, err := r.col.InsertOne(ctx, m)
	return wrapInsertErr(err)
}

// UpdateFields aplica un $set parcial. Devuelve mongo.ErrNoDocuments si no existe.
func (r *MovieRepository) UpdateFields(ctx context.Context, movieID int, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"movieId": movieID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRatingStats reemplaza las estadísticas denormalizadas de rating.
func (r *MovieRepository) SetRatingStats(ctx context.Context, movieID int, stats models.RatingStats) error {
	now := time.Now().UTC()
	return r.UpdateFields(ctx, movieID, bson.M{"ratingStats": stats, "updatedAt": now})
}

func (r *MovieRepository) Delete(ctx context.Context, movieID int) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// CountAtOrBelow cuenta películas con promedio <= avg (sin reviews cuenta como 0).
func (r *MovieRepository) CountAtOrBelow(ctx context.Context, avg float64) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"ratingStats.average": bson.M{"$lte": avg}},
		bson.M{"ratingStats": bson.M{"$exists": false}},
	}}
	return r.col.CountDocuments(ctx, filter)
}

func (r *MovieRepository) CountWithoutReviews(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"ratingStats": bson.M{"$exists": false}},
		bson.M{"ratingStats.count": 0},
	}})
}

func (r *MovieRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Movie, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Movie{}
	for cur.Next(ctx) {
		var m models.Movie
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}
