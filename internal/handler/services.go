package handler

import (
	"context"

	"dinoco-api/internal/models"
	"dinoco-api/internal/service"
)

// Lo que cada handler necesita de su servicio. Los *service.XService los
// cumplen; los tests usan stubs.

type AuthAPI interface {
	Register(ctx context.Context, data service.RegisterUserData) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginChallenge, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.LoginResult, error)
	UpdateUser(ctx context.Context, userID int, data service.UpdateUserData) (*models.User, error)
	ListUsers(ctx context.Context, role, q string, limit, offset int) ([]models.User, error)
	GetUserByID(ctx context.Context, userID int) (*models.User, error)
}

type MovieAPI interface {
	List(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, id int) (*models.Movie, error)
	Search(ctx context.Context, p service.SearchParams) (*models.MovieSearchResult, error)
	Top(ctx context.Context, metric string, limit int) ([]models.Movie, error)
	CreateMovie(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int, req *models.MovieUpdateRequest) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int) error
}

type ReviewAPI interface {
	AddOrUpdate(ctx context.Context, userID int, req models.ReviewRequest) (*models.ReviewResult, error)
	ListByMovie(ctx context.Context, movieID int) ([]models.ReviewWithAuthor, error)
	GetUserReview(ctx context.Context, movieID, userID int) (*models.Review, error)
	ListByUser(ctx context.Context, userID int) ([]models.ReviewWithMovie, error)
	Stats(ctx context.Context, movieID int) (*models.ReviewStats, error)
}

type RecommendAPI interface {
	Recommend(ctx context.Context, req service.RecRequest) (*models.RecommendationResult, error)
	History(ctx context.Context, userID, limit int) ([]models.Recommendation, error)
}

type InsightAPI interface {
	Trust(ctx context.Context, movieID int) (*models.TrustReport, error)
	Explain(ctx context.Context, movieID int, userID *int) (*models.ExplanationReport, error)
}

type TraceAPI interface {
	Record(ctx context.Context, userID *int, req models.DecisionTraceRequest) (*models.DecisionTraceCreated, error)
	ForMovie(ctx context.Context, movieID int) (*models.MovieTraceReport, error)
	ForUser(ctx context.Context, userID, limit int) (*models.UserTraceReport, error)
}

type AnalyticsAPI interface {
	Totals(ctx context.Context) (*models.CatalogTotals, error)
	Admin(ctx context.Context) (*models.AdminAnalytics, error)
}

type MonitorAPI interface {
	Dependencies(ctx context.Context) (map[string]string, bool)
	Status(ctx context.Context) models.MonitoringStatus
}
