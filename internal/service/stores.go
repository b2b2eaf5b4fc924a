package service

import (
	"context"
	"time"

	"dinoco-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interfaces mínimas que los servicios necesitan de la capa de persistencia.
// Los repositorios de internal/repository las implementan; los tests usan fakes.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID int) (*models.User, error)
	GetNextUserID(ctx context.Context) (int, error)
	Insert(ctx context.Context, u *models.User) error
	UpdateByID(ctx context.Context, userID int, update bson.M) error
	Search(ctx context.Context, role, q string, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type OTPStore interface {
	ConsumeAllForUser(ctx context.Context, userID int) error
	Insert(ctx context.Context, otp *models.LoginOTP) error
	LatestActive(ctx context.Context, userID int, now time.Time) (*models.LoginOTP, error)
	Consume(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type MovieStore interface {
	GetByID(ctx context.Context, movieID int) (*models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
	Filter(ctx context.Context, genre string, yearFrom, yearTo int) ([]models.Movie, error)
	Top(ctx context.Context, metric string, limit int) ([]models.Movie, error)
	TopSummaries(ctx context.Context, metric string, minReviews, limit int) ([]models.MovieSummary, error)
	Catalog(ctx context.Context) ([]models.MovieAggregate, error)
	GetNextMovieID(ctx context.Context) (int, error)
	Insert(ctx context.Context, m *models.Movie) error
	UpdateFields(ctx context.Context, movieID int, update bson.M) error
	SetRatingStats(ctx context.Context, movieID int, stats models.RatingStats) error
	Delete(ctx context.Context, movieID int) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountAtOrBelow(ctx context.Context, avg float64) (int64, error)
	CountWithoutReviews(ctx context.Context) (int64, error)
}

type ReviewStore interface {
	GetOne(ctx context.Context, userID, movieID int) (*models.Review, error)
	Upsert(ctx context.Context, userID, movieID, rating int, comment string) (bool, error)
	ListByMovie(ctx context.Context, movieID int) ([]models.ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID int) ([]models.ReviewWithMovie, error)
	Stats(ctx context.Context, movieID int) (*models.ReviewStats, error)
	RatedMoviesByUser(ctx context.Context, userID int) ([]models.RatedMovie, error)
	LikedByUser(ctx context.Context, userID, limit int) ([]models.RatedMovie, error)
	ReviewerRatings(ctx context.Context, movieID int) ([]models.ReviewerRating, error)
	CountRecentForMovie(ctx context.Context, movieID int, since time.Time) (int64, error)
	DeleteByMovie(ctx context.Context, movieID int) (int64, error)
	Count(ctx context.Context) (int64, error)
	ActiveReviewersSince(ctx context.Context, since time.Time) (int, error)
	RatingDistribution(ctx context.Context) ([]models.RatingBucket, error)
	Recent(ctx context.Context, limit int) ([]models.RecentReview, error)
}

type TraceStore interface {
	Insert(ctx context.Context, t *models.DecisionTrace) error
	ListByMovie(ctx context.Context, movieID, limit int) ([]models.DecisionTrace, error)
	ListByUserWithTitle(ctx context.Context, userID, limit int) ([]models.DecisionTraceWithTitle, error)
	DeleteByMovie(ctx context.Context, movieID int) (int64, error)
}

type RecommendationStore interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	FindByUser(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error)
}

// Cache es la parte de cache.Store que usan los servicios.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type OTPMailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
}
