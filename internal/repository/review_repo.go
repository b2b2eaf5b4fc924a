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

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(database *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: database.Collection(db.ColReviews)}
}

func (r *ReviewRepository) GetOne(ctx context.Context, userID, movieID int) (*models.Review, error) {
	var rv models.Review
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "movieId": movieID}).Decode(&rv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Upsert guarda la reseña de (userId, movieId). created=true si no existía.
func (r *ReviewRepository) Upsert(ctx context.Context, userID, movieID, rating int, comment string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{
			"$set": bson.M{
				"rating":     rating,
				"comment":    comment,
				"reviewDate": now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// ListByMovie trae las reseñas de la película con el nombre del autor.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int) ([]models.ReviewWithAuthor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "movieId", Value: movieID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "reviewDate", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColUsers},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "userId"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$author.name"}}, "",
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "author", Value: 0}}}},
	}

	out := []models.ReviewWithAuthor{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser trae las reseñas del usuario con título y género de la película.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int) ([]models.ReviewWithMovie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "reviewDate", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColMovies},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "movieId"},
			{Key: "as", Value: "movie"},
		}}},
		{{Key: "$unwind", Value: "$movie"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "title", Value: "$movie.title"},
			{Key: "genre", Value: "$movie.genre"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "movie", Value: 0}}}},
	}

	out := []models.ReviewWithMovie{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats agrega count/avg/min/max de una película. Sin reseñas devuelve ceros.
func (r *ReviewRepository) Stats(ctx context.Context, movieID int) (*models.ReviewStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "movieId", Value: movieID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "reviewCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "minRating", Value: bson.D{{Key: "$min", Value: "$rating"}}},
			{Key: "maxRating", Value: bson.D{{Key: "$max", Value: "$rating"}}},
		}}},
	}

	var rows []models.ReviewStats
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.ReviewStats{}, nil
	}
	return &rows[0], nil
}

// RatedMoviesByUser es el historial que consume el motor de recomendación.
func (r *ReviewRepository) RatedMoviesByUser(ctx context.Context, userID int) ([]models.RatedMovie, error) {
	return r.ratedMovies(ctx, bson.D{{Key: "userId", Value: userID}}, 0)
}

// LikedByUser son las últimas reseñas con rating >= 4, para la explicación.
func (r *ReviewRepository) LikedByUser(ctx context.Context, userID, limit int) ([]models.RatedMovie, error) {
	match := bson.D{
		{Key: "userId", Value: userID},
		{Key: "rating", Value: bson.D{{Key: "$gte", Value: 4}}},
	}
	return r.ratedMovies(ctx, match, limit)
}

func (r *ReviewRepository) ratedMovies(ctx context.Context, match bson.D, limit int) ([]models.RatedMovie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "reviewDate", Value: -1}, {Key: "movieId", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColMovies},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "movieId"},
			{Key: "as", Value: "movie"},
		}}},
		bson.D{{Key: "$unwind", Value: "$movie"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "movieId", Value: 1},
			{Key: "rating", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "title", Value: "$movie.title"},
			{Key: "genre", Value: "$movie.genre"},
		}}},
	)

	out := []models.RatedMovie{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewerRatings anota cada reseña de la película con el total de reseñas de su autor.
func (r *ReviewRepository) ReviewerRatings(ctx context.Context, movieID int) ([]models.ReviewerRating, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "movieId", Value: movieID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "userId", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColReviews},
			{Key: "let", Value: bson.D{{Key: "uid", Value: "$userId"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$userId", "$$uid"}},
				}}}}},
				{{Key: "$count", Value: "n"}},
			}},
			{Key: "as", Value: "authored"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "userId", Value: 1},
			{Key: "rating", Value: 1},
			{Key: "reviewerReviewCount", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$authored.n"}}, 0,
			}}}},
		}}},
	}

	out := []models.ReviewerRating{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepository) CountRecentForMovie(ctx context.Context, movieID int, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"movieId":    movieID,
		"reviewDate": bson.M{"$gte": since},
	})
}

func (r *ReviewRepository) DeleteByMovie(ctx context.Context, movieID int) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// ActiveReviewersSince cuenta autores distintos con reseñas desde since.
func (r *ReviewRepository) ActiveReviewersSince(ctx context.Context, since time.Time) (int, error) {
	ids, err := r.col.Distinct(ctx, "userId", bson.M{"reviewDate": bson.M{"$gte": since}})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (r *ReviewRepository) RatingDistribution(ctx context.Context) ([]models.RatingBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$rating"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}

	out := []models.RatingBucket{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recent son las últimas reseñas del sistema con autor y película.
func (r *ReviewRepository) Recent(ctx context.Context, limit int) ([]models.RecentReview, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "reviewDate", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColUsers},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "userId"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ColMovies},
			{Key: "localField", Value: "movieId"},
			{Key: "foreignField", Value: "movieId"},
			{Key: "as", Value: "movie"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "rating", Value: 1},
			{Key: "comment", Value: 1},
			{Key: "reviewDate", Value: 1},
			{Key: "userName", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$author.name"}}, "",
			}}}},
			{Key: "movieTitle", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$movie.title"}}, "",
			}}}},
		}}},
	}

	out := []models.RecentReview{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
