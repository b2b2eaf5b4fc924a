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
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

type RecommendService struct {
	reviews ReviewStore
	movies  MovieStore
	recRepo RecommendationStore
	cache   Cache
	ttl     time.Duration
}

func NewRecommendService(r ReviewStore, m MovieStore, recRepo RecommendationStore, c Cache, ttl time.Duration) *RecommendService {
	return &RecommendService{
		reviews: r,
		movies:  m,
		recRepo: recRepo,
		cache:   c,
		ttl:     ttl,
	}
}

// ====== Petición de recomendaciones ======

type RecRequest struct {
	UserID  int
	Refresh bool
}

// Recommend arma las recomendaciones del usuario con el motor por reglas.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) (*models.RecommendationResult, error) {
	key := recCacheKey(req.UserID)

	// 1) Cache Redis (solo si refresh = false)
	if !req.Refresh {
		var cached models.RecommendationResult
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		}
		metrics.RecordCache(cacheRecs, ok)
		if ok {
			return &cached, nil
		}
	}

	// 2) Historial del usuario y catálogo
	ratings, err := s.reviews.RatedMoviesByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.movies.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Motor
	res := scoring.Recommend(ratings, catalog)

	types := make([]string, 0, len(res.Recommendations))
	for _, it := range res.Recommendations {
		types = append(types, it.ExplanationType)
	}
	metrics.RecordRecommendations(types)

	// 4) Historial en Mongo (no rompemos la respuesta si falla)
	s.saveHistory(ctx, req.UserID, &res)

	// 5) Cachear
	if err := s.cache.SetJSON(ctx, key, res, s.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
	}

	return &res, nil
}

func (s *RecommendService) saveHistory(ctx context.Context, userID int, res *models.RecommendationResult) {
	if s.recRepo == nil {
		return
	}
	items := make([]models.RecItem, 0, len(res.Recommendations))
	for _, it := range res.Recommendations {
		items = append(items, models.RecItem{MovieID: it.MovieID, ExplanationType: it.ExplanationType})
	}
	hist := &models.Recommendation{
		UserID:          userID,
		Algo:            res.Algorithm,
		PreferredGenres: res.PreferredGenres,
		Items:           items,
	}
	if err := s.recRepo.Insert(ctx, hist); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("user_id", userID).Msg("failed to save recommendation history")
	}
}

// History devuelve las últimas ejecuciones guardadas del usuario.
func (s *RecommendService) History(ctx context.Context, userID, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	} else if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.recRepo.FindByUser(ctx, userID, int64(limit))
}
