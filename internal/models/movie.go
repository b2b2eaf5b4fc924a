package models

import "time"

type RatingStats struct {
	Average     float64    `json:"average" bson:"average"`
	Count       int        `json:"count" bson:"count"`
	LastRatedAt *time.Time `json:"last_rated_at,omitempty" bson:"lastRatedAt,omitempty"`
}

type Movie struct {
	MovieID         int          `json:"movie_id" bson:"movieId"`
	Title           string       `json:"title" bson:"title"`
	Genre           string       `json:"genre,omitempty" bson:"genre,omitempty"`
	Language        string       `json:"language,omitempty" bson:"language,omitempty"`
	ReleaseYear     int          `json:"release_year,omitempty" bson:"releaseYear,omitempty"`
	DurationMinutes int          `json:"duration_minutes,omitempty" bson:"durationMinutes,omitempty"`
	PosterURL       string       `json:"poster_url,omitempty" bson:"posterUrl,omitempty"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	RatingStats     *RatingStats `json:"rating_stats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt       time.Time    `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updatedAt"`
}

// AvgRating devuelve 0 si la película aún no tiene reviews.
func (m *Movie) AvgRating() float64 {
	if m.RatingStats == nil {
		return 0
	}
	return m.RatingStats.Average
}

func (m *Movie) ReviewCount() int {
	if m.RatingStats == nil {
		return 0
	}
	return m.RatingStats.Count
}

// Aggregate proyecta la película a la vista que usa el motor de recomendación.
func (m *Movie) Aggregate() MovieAggregate {
	return MovieAggregate{
		MovieID:     m.MovieID,
		Title:       m.Title,
		Genre:       m.Genre,
		ReleaseYear: m.ReleaseYear,
		PosterURL:   m.PosterURL,
		Description: m.Description,
		AvgRating:   m.AvgRating(),
		ReviewCount: m.ReviewCount(),
	}
}

// ====== Requests del CRUD de películas (ADMIN) ======

type MovieCreateRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Genre           string `json:"genre" validate:"max=100"`
	Language        string `json:"language" validate:"max=50"`
	ReleaseYear     int    `json:"release_year" validate:"omitempty,min=1870,max=2100"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1,max=1000"`
	PosterURL       string `json:"poster_url" validate:"omitempty,url"`
	Description     string `json:"description"`
}

type MovieUpdateRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Genre           *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	Language        *string `json:"language,omitempty" validate:"omitempty,max=50"`
	ReleaseYear     *int    `json:"release_year,omitempty" validate:"omitempty,min=1870,max=2100"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=1000"`
	PosterURL       *string `json:"poster_url,omitempty" validate:"omitempty,url"`
	Description     *string `json:"description,omitempty"`
}

// MovieSearchResult incluye sugerencias cuando la búsqueda por título no encuentra nada parecido.
type MovieSearchResult struct {
	Movies      []Movie  `json:"movies"`
	Suggestions []string `json:"suggestions,omitempty"`
}
