package service

import (
	"context"
	"time"

	"dinoco-api/internal/models"
)

const (
	activeWindow      = 30 * 24 * time.Hour
	topMoviesLimit    = 5
	topRatedMinCount  = 3
	recentReviewLimit = 10
)

type AnalyticsService struct {
	movies  MovieStore
	users   UserStore
	reviews ReviewStore
}

func NewAnalyticsService(m MovieStore, u UserStore, r ReviewStore) *AnalyticsService {
	return &AnalyticsService{movies: m, users: u, reviews: r}
}

// Totals son los contadores públicos del sitio.
func (s *AnalyticsService) Totals(ctx context.Context) (*models.CatalogTotals, error) {
	movies, err := s.movies.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CatalogTotals{
		TotalMovies:  movies,
		TotalUsers:   users,
		TotalReviews: reviews,
	}, nil
}

// Admin arma el dashboard de analytics de administración.
func (s *AnalyticsService) Admin(ctx context.Context) (*models.AdminAnalytics, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.reviews.ActiveReviewersSince(ctx, time.Now().UTC().Add(-activeWindow))
	if err != nil {
		return nil, err
	}
	withoutReviews, err := s.movies.CountWithoutReviews(ctx)
	if err != nil {
		return nil, err
	}

	topReviewed, err := s.movies.TopSummaries(ctx, "popular", 0, topMoviesLimit)
	if err != nil {
		return nil, err
	}
	topRated, err := s.movies.TopSummaries(ctx, "rating", topRatedMinCount, topMoviesLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.reviews.Recent(ctx, recentReviewLimit)
	if err != nil {
		return nil, err
	}
	dist, err := s.reviews.RatingDistribution(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminAnalytics{
		Overview: models.AnalyticsOverview{
			CatalogTotals:        *totals,
			ActiveReviewers30d:   active,
			MoviesWithoutReviews: withoutReviews,
		},
		TopReviewedMovies:  topReviewed,
		TopRatedMovies:     topRated,
		RecentReviews:      recent,
		RatingDistribution: dist,
	}, nil
}
