package service

import (
	"context"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/models"
)

type ReviewService struct {
	reviews ReviewStore
	movies  MovieStore
	cache   Cache
}

func NewReviewService(r ReviewStore, m MovieStore, c Cache) *ReviewService {
	return &ReviewService{
		reviews: r,
		movies:  m,
		cache:   c,
	}
}

// AddOrUpdate guarda la reseña (una por usuario y película) y refresca las
// estadísticas de rating de la película.
func (s *ReviewService) AddOrUpdate(ctx context.Context, userID int, req models.ReviewRequest) (*models.ReviewResult, error) {
	// 1) La película tiene que existir
	movie, err := s.movies.GetByID(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	// 2) Upsert de la reseña
	created, err := s.reviews.Upsert(ctx, userID, req.MovieID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	// 3) Stats de la película recalculadas desde las reseñas
	if err := s.refreshRatingStats(ctx, req.MovieID); err != nil {
		return nil, err
	}

	// 4) Lo cacheado para el autor y la película ya no vale
	if err := s.cache.Delete(ctx, recCacheKey(userID), trustCacheKey(req.MovieID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("cache invalidation failed")
	}

	msg := "Review updated successfully"
	if created {
		msg = "Review added successfully"
	}
	return &models.ReviewResult{
		Message: msg,
		UserID:  userID,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Created: created,
	}, nil
}

func (s *ReviewService) refreshRatingStats(ctx context.Context, movieID int) error {
	st, err := s.reviews.Stats(ctx, movieID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.movies.SetRatingStats(ctx, movieID, models.RatingStats{
		Average:     st.AvgRating,
		Count:       st.ReviewCount,
		LastRatedAt: &now,
	})
}

func (s *ReviewService) ListByMovie(ctx context.Context, movieID int) ([]models.ReviewWithAuthor, error) {
	return s.reviews.ListByMovie(ctx, movieID)
}

// GetUserReview devuelve nil si el usuario no reseñó la película.
func (s *ReviewService) GetUserReview(ctx context.Context, movieID, userID int) (*models.Review, error) {
	return s.reviews.GetOne(ctx, userID, movieID)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID int) ([]models.ReviewWithMovie, error) {
	return s.reviews.ListByUser(ctx, userID)
}

func (s *ReviewService) Stats(ctx context.Context, movieID int) (*models.ReviewStats, error) {
	st, err := s.reviews.Stats(ctx, movieID)
	if err != nil {
		return nil, err
	}
	st.AvgRatingRounded = round1(st.AvgRating)
	return st, nil
}
