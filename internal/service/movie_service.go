// internal/service/movie_service.go
package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/models"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultTopLimit = 20
	MaxTopLimit     = 100
	maxSuggestions  = 5
)

type MovieService struct {
	movies  MovieStore
	reviews ReviewStore
	traces  TraceStore
	cache   Cache
}

func NewMovieService(m MovieStore, r ReviewStore, t TraceStore, c Cache) *MovieService {
	return &MovieService{movies: m, reviews: r, traces: t, cache: c}
}

func (s *MovieService) List(ctx context.Context) ([]models.Movie, error) {
	return s.movies.List(ctx)
}

func (s *MovieService) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMovieNotFound
	}
	return m, nil
}

// ====== Búsqueda ======

type SearchParams struct {
	Query    string
	Genre    string
	YearFrom int
	YearTo   int
	Limit    int
	Offset   int
}

// Search filtra por género/años y ordena por similitud de título. Si el
// texto no matchea ningún título, devuelve sugerencias "quisiste decir".
func (s *MovieService) Search(ctx context.Context, p SearchParams) (*models.MovieSearchResult, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultTopLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	candidates, err := s.movies.Filter(ctx, p.Genre, p.YearFrom, p.YearTo)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(p.Query)
	if q == "" {
		return &models.MovieSearchResult{Movies: paginate(candidates, p.Limit, p.Offset)}, nil
	}

	titles := make([]string, len(candidates))
	for i, m := range candidates {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(q, titles)
	if len(ranks) == 0 {
		return &models.MovieSearchResult{
			Movies:      []models.Movie{},
			Suggestions: suggestTitles(q, titles),
		}, nil
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return candidates[ranks[i].OriginalIndex].MovieID < candidates[ranks[j].OriginalIndex].MovieID
	})

	matched := make([]models.Movie, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, candidates[r.OriginalIndex])
	}
	return &models.MovieSearchResult{Movies: paginate(matched, p.Limit, p.Offset)}, nil
}

// suggestTitles devuelve los títulos a menor distancia de edición del texto.
func suggestTitles(q string, titles []string) []string {
	q = strings.ToLower(q)
	thresh := typoThreshold(len(q))

	type cand struct {
		title string
		dist  int
	}
	var found []cand
	seen := map[string]bool{}
	for _, t := range titles {
		lower := strings.ToLower(t)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		if d := levenshtein.ComputeDistance(q, lower); d <= thresh {
			found = append(found, cand{title: t, dist: d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].title < found[j].title
	})

	out := []string{}
	for i := 0; i < len(found) && i < maxSuggestions; i++ {
		out = append(out, found[i].title)
	}
	return out
}

// typoThreshold: 1 para textos cortos, 2 hasta 15 caracteres, ~20% para más largos.
func typoThreshold(l int) int {
	switch {
	case l <= 5:
		return 1
	case l <= 15:
		return 2
	default:
		return int(math.Ceil(float64(l) * 0.2))
	}
}

func paginate(ms []models.Movie, limit, offset int) []models.Movie {
	if offset >= len(ms) {
		return []models.Movie{}
	}
	end := offset + limit
	if end > len(ms) {
		end = len(ms)
	}
	return ms[offset:end]
}

func (s *MovieService) Top(ctx context.Context, metric string, limit int) ([]models.Movie, error) {
	if metric != "rating" {
		metric = "popular"
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	} else if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	return s.movies.Top(ctx, metric, limit)
}

// ====== ADMIN: CRUD ======

func (s *MovieService) CreateMovie(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	nextID, err := s.movies.GetNextMovieID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &models.Movie{
		MovieID:         nextID,
		Title:           strings.TrimSpace(req.Title),
		Genre:           strings.TrimSpace(req.Genre),
		Language:        strings.TrimSpace(req.Language),
		ReleaseYear:     req.ReleaseYear,
		DurationMinutes: req.DurationMinutes,
		PosterURL:       req.PosterURL,
		Description:     req.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.movies.Insert(ctx, m); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Int("movie_id", m.MovieID).Str("title", m.Title).Msg("movie created")
	return m, nil
}

func (s *MovieService) UpdateMovie(ctx context.Context, id int, req *models.MovieUpdateRequest) (*models.Movie, error) {
	update := bson.M{}
	if req.Title != nil {
		update["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Genre != nil {
		update["genre"] = strings.TrimSpace(*req.Genre)
	}
	if req.Language != nil {
		update["language"] = strings.TrimSpace(*req.Language)
	}
	if req.ReleaseYear != nil {
		update["releaseYear"] = *req.ReleaseYear
	}
	if req.DurationMinutes != nil {
		update["durationMinutes"] = *req.DurationMinutes
	}
	if req.PosterURL != nil {
		update["posterUrl"] = *req.PosterURL
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if len(update) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	update["updatedAt"] = time.Now().UTC()

	if err := s.movies.UpdateFields(ctx, id, update); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return s.GetMovie(ctx, id)
}

// DeleteMovie borra la película junto con sus reseñas y decision traces.
func (s *MovieService) DeleteMovie(ctx context.Context, id int) error {
	deleted, err := s.movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMovieNotFound
	}

	reviews, err := s.reviews.DeleteByMovie(ctx, id)
	if err != nil {
		return err
	}
	traces, err := s.traces.DeleteByMovie(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, trustCacheKey(id)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("movie_id", id).Msg("trust cache invalidation failed")
	}

	logging.Ctx(ctx).Info().
		Int("movie_id", id).
		Int64("reviews_deleted", reviews).
		Int64("traces_deleted", traces).
		Msg("movie deleted")
	return nil
}
