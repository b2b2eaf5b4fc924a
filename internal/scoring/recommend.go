package scoring

import (
	"fmt"
	"sort"

	"dinoco-api/internal/models"
)

const (
	MaxRecommendations = 10

	likedGenreMin    = 4.0 // promedio mínimo para que un género sea "preferido"
	topRatedMin      = 4.5
	topGenres        = 3
	topRatedLimit    = 3
	trendingMinCount = 3
	trendingMinAvg   = 4.0
	reasonTrendCount = 5
	highRatedMin     = 4.0
)

const (
	StageGenreMatch = "genre_match"
	StageTrending   = "trending"
	StageCatchAll   = "catch_all"
)

// recContext es lo que cada etapa necesita saber del usuario.
type recContext struct {
	affinities []models.GenreAffinity
	topRated   []models.RatedMovie
	excluded   map[int]bool
}

// stage elige hasta `capacity` películas de `pool` (ya sin vistas ni elegidas).
type stage struct {
	name string
	pick func(rc *recContext, pool []models.MovieAggregate, capacity int) []models.MovieAggregate
}

var stages = []stage{
	{name: StageGenreMatch, pick: pickGenreMatch},
	{name: StageTrending, pick: pickTrending},
	{name: StageCatchAll, pick: pickCatchAll},
}

// Recommend arma hasta 10 recomendaciones para un usuario a partir de sus
// ratings y del catálogo completo. Las etapas se ejecutan en orden y cada una
// solo rellena la capacidad que dejó la anterior.
func Recommend(ratings []models.RatedMovie, catalog []models.MovieAggregate) models.RecommendationResult {
	rc := &recContext{
		affinities: GenreAffinities(ratings),
		topRated:   topRatedMovies(ratings),
		excluded:   make(map[int]bool, len(ratings)),
	}
	for _, r := range ratings {
		rc.excluded[r.MovieID] = true
	}
	watchCount := len(rc.excluded)

	picked := make([]models.MovieAggregate, 0, MaxRecommendations)
	trace := make([]models.StageTrace, 0, len(stages))
	for _, st := range stages {
		capacity := MaxRecommendations - len(picked)
		var got []models.MovieAggregate
		if capacity > 0 {
			got = st.pick(rc, available(catalog, rc.excluded), capacity)
			if len(got) > capacity {
				got = got[:capacity]
			}
		}
		for _, m := range got {
			rc.excluded[m.MovieID] = true
		}
		picked = append(picked, got...)
		trace = append(trace, models.StageTrace{Stage: st.name, Selected: len(got)})
	}

	items := make([]models.RecommendationItem, 0, len(picked))
	for _, m := range picked {
		reason, kind := explainPick(rc, m)
		items = append(items, models.RecommendationItem{
			MovieAggregate:  m,
			Reason:          reason,
			ExplanationType: kind,
		})
	}

	preferred := make([]string, 0, len(rc.affinities))
	for _, a := range rc.affinities {
		preferred = append(preferred, a.Genre)
	}

	return models.RecommendationResult{
		Recommendations: items,
		PreferredGenres: preferred,
		Algorithm:       models.AlgorithmRuleBased,
		UserWatchCount:  watchCount,
		Stages:          trace,
	}
}

// GenreAffinities agrupa los ratings por género y se queda con los géneros
// cuyo promedio es >= 4.0, ordenados por (promedio desc, cantidad desc, género asc).
func GenreAffinities(ratings []models.RatedMovie) []models.GenreAffinity {
	type acc struct {
		sum   int
		count int
	}
	byGenre := map[string]*acc{}
	for _, r := range ratings {
		if r.Genre == "" {
			continue
		}
		a, ok := byGenre[r.Genre]
		if !ok {
			a = &acc{}
			byGenre[r.Genre] = a
		}
		a.sum += r.Rating
		a.count++
	}

	out := make([]models.GenreAffinity, 0, len(byGenre))
	for g, a := range byGenre {
		avg := float64(a.sum) / float64(a.count)
		if avg < likedGenreMin {
			continue
		}
		out = append(out, models.GenreAffinity{Genre: g, AvgRating: avg, WatchCount: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		if out[i].WatchCount != out[j].WatchCount {
			return out[i].WatchCount > out[j].WatchCount
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// topRatedMovies: ratings >= 4.5, por (rating desc, fecha desc), máximo 3.
func topRatedMovies(ratings []models.RatedMovie) []models.RatedMovie {
	var out []models.RatedMovie
	for _, r := range ratings {
		if float64(r.Rating) >= topRatedMin {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].RatedAt.After(out[j].RatedAt)
	})
	if len(out) > topRatedLimit {
		out = out[:topRatedLimit]
	}
	return out
}

func available(catalog []models.MovieAggregate, excluded map[int]bool) []models.MovieAggregate {
	out := make([]models.MovieAggregate, 0, len(catalog))
	for _, m := range catalog {
		if !excluded[m.MovieID] {
			out = append(out, m)
		}
	}
	return out
}

// ====== Etapas ======

func pickGenreMatch(rc *recContext, pool []models.MovieAggregate, capacity int) []models.MovieAggregate {
	if len(rc.affinities) == 0 {
		return nil
	}
	wanted := map[string]bool{}
	for i, a := range rc.affinities {
		if i == topGenres {
			break
		}
		wanted[a.Genre] = true
	}

	var out []models.MovieAggregate
	for _, m := range pool {
		if wanted[m.Genre] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		if out[i].ReviewCount != out[j].ReviewCount {
			return out[i].ReviewCount > out[j].ReviewCount
		}
		return out[i].MovieID < out[j].MovieID
	})
	return limit(out, capacity)
}

func pickTrending(_ *recContext, pool []models.MovieAggregate, capacity int) []models.MovieAggregate {
	var out []models.MovieAggregate
	for _, m := range pool {
		if m.ReviewCount >= trendingMinCount && m.AvgRating >= trendingMinAvg {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReviewCount != out[j].ReviewCount {
			return out[i].ReviewCount > out[j].ReviewCount
		}
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		return out[i].MovieID < out[j].MovieID
	})
	return limit(out, capacity)
}

func pickCatchAll(_ *recContext, pool []models.MovieAggregate, capacity int) []models.MovieAggregate {
	out := append([]models.MovieAggregate(nil), pool...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		if out[i].ReleaseYear != out[j].ReleaseYear {
			return out[i].ReleaseYear > out[j].ReleaseYear
		}
		return out[i].MovieID < out[j].MovieID
	})
	return limit(out, capacity)
}

func limit(ms []models.MovieAggregate, n int) []models.MovieAggregate {
	if len(ms) > n {
		return ms[:n]
	}
	return ms
}

// ====== Razones ======

// explainPick asigna una sola razón por película; gana la primera regla que aplica.
func explainPick(rc *recContext, m models.MovieAggregate) (string, string) {
	if m.Genre != "" {
		for _, a := range rc.affinities {
			if a.Genre == m.Genre {
				return fmt.Sprintf("You rated %d %s movies highly (avg %.1f⭐)", a.WatchCount, m.Genre, a.AvgRating),
					models.ExplanationGenrePreference
			}
		}
		for _, t := range rc.topRated {
			if t.Genre == m.Genre {
				return fmt.Sprintf("Similar to '%s' which you rated %.1f⭐", t.Title, float64(t.Rating)),
					models.ExplanationSimilarToLiked
			}
		}
	}
	if m.ReviewCount >= reasonTrendCount && m.AvgRating >= trendingMinAvg {
		return fmt.Sprintf("Trending: %d reviews with %.1f⭐ rating", m.ReviewCount, m.AvgRating),
			models.ExplanationTrending
	}
	if m.AvgRating >= highRatedMin {
		return fmt.Sprintf("Highly rated by critics (%.1f⭐)", m.AvgRating), models.ExplanationHighRated
	}
	return "Recommended for you", models.ExplanationGeneral
}
