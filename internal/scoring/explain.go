package scoring

import (
	"fmt"
	"math"

	"dinoco-api/internal/models"
)

const (
	filterHighRated   = 4.5
	filterQuality     = 4.0
	filterConsensus   = 50
	filterCount       = 3
	volumeCap         = 100
	trendingRecentMin = 5

	weightPersonalization = 0.4
	weightFilters         = 0.3
	weightPopularity      = 0.3
)

// Explain arma el reporte de por qué se muestra una película. userID es nil
// para visitantes anónimos; liked son los últimos ratings >= 4 del usuario.
func Explain(movie models.MovieAggregate, userID *int, liked []models.RatedMovie, stats models.CatalogStats) models.ExplanationReport {
	rep := models.ExplanationReport{
		Movie: models.ExplainedMovie{
			ID:          movie.MovieID,
			Title:       movie.Title,
			Genre:       movie.Genre,
			Rating:      movie.AvgRating,
			ReviewCount: movie.ReviewCount,
		},
		Factors: models.ExplanationFactors{
			Personalization: []models.PersonalizationFactor{},
			Filters:         []models.FilterFactor{},
			Popularity:      []models.PopularityFactor{},
			Trending:        []models.TrendingFactor{},
		},
	}

	// 1) Personalización
	if userID != nil && len(liked) > 0 {
		matches := 0
		for _, l := range liked {
			if movie.Genre != "" && l.Genre == movie.Genre {
				matches++
			}
		}
		if matches > 0 {
			rep.Factors.Personalization = append(rep.Factors.Personalization, models.PersonalizationFactor{
				Reason:      "Genre Match",
				Description: fmt.Sprintf("You rated %d %s movies highly", matches, movie.Genre),
				Weight:      "40%",
				Emoji:       "🎬",
			})
		}
		rep.Scores.PersonalizationScore = round1(float64(matches) / float64(len(liked)) * 100)
	}

	// 2) Filtros de calidad
	rating := fmt.Sprintf("%.1f⭐", movie.AvgRating)
	if movie.AvgRating >= filterHighRated {
		rep.Factors.Filters = append(rep.Factors.Filters, models.FilterFactor{
			Filter: "High Rated", Criteria: "Rating ≥ 4.5⭐", Met: true, Value: rating, Emoji: "⭐",
		})
	}
	if movie.AvgRating >= filterQuality {
		rep.Factors.Filters = append(rep.Factors.Filters, models.FilterFactor{
			Filter: "Quality Threshold", Criteria: "Rating ≥ 4.0⭐", Met: true, Value: rating, Emoji: "✅",
		})
	}
	if movie.ReviewCount >= filterConsensus {
		rep.Factors.Filters = append(rep.Factors.Filters, models.FilterFactor{
			Filter:   "Community Consensus",
			Criteria: "≥50 verified reviews",
			Met:      true,
			Value:    fmt.Sprintf("%d reviews", movie.ReviewCount),
			Emoji:    "👥",
		})
	}
	rep.Scores.FilterMatchScore = round1(float64(len(rep.Factors.Filters)) / filterCount * 100)

	// 3) Popularidad
	percentile := 0.0
	if stats.Total > 0 {
		percentile = float64(stats.AtOrBelow) / float64(stats.Total) * 100
	}
	rep.Factors.Popularity = []models.PopularityFactor{
		{
			Metric:      "Rating Percentile",
			Value:       fmt.Sprintf("Top %.0f%%", 100-percentile),
			Description: fmt.Sprintf("Higher rated than %.0f%% of movies", percentile),
			Emoji:       "📊",
		},
		{
			Metric:      "Review Volume",
			Value:       fmt.Sprintf("%d reviews", movie.ReviewCount),
			Description: "Indicator of community engagement",
			Emoji:       "💬",
		},
		{
			Metric:      "Average Rating",
			Value:       fmt.Sprintf("%.1f/5.0", movie.AvgRating),
			Description: "Community consensus score",
			Emoji:       "⭐",
		},
	}
	volume := math.Min(float64(movie.ReviewCount), volumeCap) / volumeCap * 50
	rep.Scores.PopularityScore = round1((percentile + volume) / 2)

	// 4) Tendencia
	if stats.RecentReviews > trendingRecentMin {
		rep.Factors.Trending = append(rep.Factors.Trending, models.TrendingFactor{
			Indicator: "Recent Activity",
			Value:     fmt.Sprintf("%d reviews in last 7 days", stats.RecentReviews),
			Emoji:     "📈",
		})
	}

	// 5) Puntaje global sobre los subpuntajes ya redondeados
	overall := rep.Scores.PersonalizationScore*weightPersonalization +
		rep.Scores.FilterMatchScore*weightFilters +
		rep.Scores.PopularityScore*weightPopularity
	rep.Scores.OverallScore = round1(overall)

	audience := "recommendations"
	if userID != nil && rep.Scores.PersonalizationScore > 0 {
		audience = "your preferences"
	}
	rep.Summary = fmt.Sprintf(
		"This movie is shown because it scores %.0f/100 based on popularity (%.0f%%), quality filters (%.0f%%), and %s.",
		overall, rep.Scores.PopularityScore, rep.Scores.FilterMatchScore, audience,
	)
	return rep
}
