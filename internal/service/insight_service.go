package service

import (
	"context"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/metrics"
	"dinoco-api/internal/models"
	"dinoco-api/internal/scoring"
)

const (
	likedLimit     = 10
	trendingWindow = 7 * 24 * time.Hour
)

// InsightService expone las vistas de transparencia: confianza de las
// reseñas de una película y por qué se muestra una película.
type InsightService struct {
	movies   MovieStore
	reviews  ReviewStore
	cache    Cache
	trustTTL time.Duration
	now      func() time.Time
}

func NewInsightService(m MovieStore, r ReviewStore, c Cache, trustTTL time.Duration) *InsightService {
	return &InsightService{
		movies:   m,
		reviews:  r,
		cache:    c,
		trustTTL: trustTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Trust calcula el heatmap de confianza. Una película sin reseñas (o inexistente)
// da el reporte en cero.
func (s *InsightService) Trust(ctx context.Context, movieID int) (*models.TrustReport, error) {
	key := trustCacheKey(movieID)

	var cached models.TrustReport
	ok, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("trust cache read failed")
	}
	metrics.RecordCache(cacheTrust, ok)
	if ok {
		return &cached, nil
	}

	ratings, err := s.reviews.ReviewerRatings(ctx, movieID)
	if err != nil {
		return nil, err
	}
	report := scoring.ScoreTrust(ratings)

	if err := s.cache.SetJSON(ctx, key, report, s.trustTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("trust cache write failed")
	}
	return &report, nil
}

// Explain arma la explicación de por qué se muestra la película. userID es
// nil para visitantes anónimos.
func (s *InsightService) Explain(ctx context.Context, movieID int, userID *int) (*models.ExplanationReport, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	agg := movie.Aggregate()

	var liked []models.RatedMovie
	if userID != nil {
		liked, err = s.reviews.LikedByUser(ctx, *userID, likedLimit)
		if err != nil {
			return nil, err
		}
	}

	atOrBelow, err := s.movies.CountAtOrBelow(ctx, agg.AvgRating)
	if err != nil {
		return nil, err
	}
	total, err := s.movies.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.reviews.CountRecentForMovie(ctx, movieID, s.now().Add(-trendingWindow))
	if err != nil {
		return nil, err
	}

	report := scoring.Explain(agg, userID, liked, models.CatalogStats{
		AtOrBelow:     int(atOrBelow),
		Total:         int(total),
		RecentReviews: int(recent),
	})
	return &report, nil
}
