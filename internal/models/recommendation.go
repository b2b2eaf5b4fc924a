package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ExplanationGenrePreference = "genre_preference"
	ExplanationSimilarToLiked  = "similar_to_liked"
	ExplanationTrending        = "trending"
	ExplanationHighRated       = "high_rated"
	ExplanationGeneral         = "general"

	AlgorithmRuleBased = "rule-based"
)

// RatedMovie es un rating del usuario unido a los datos de la película.
type RatedMovie struct {
	MovieID int       `json:"movie_id" bson:"movieId"`
	Title   string    `json:"title" bson:"title"`
	Genre   string    `json:"genre,omitempty" bson:"genre,omitempty"`
	Rating  int       `json:"rating" bson:"rating"`
	RatedAt time.Time `json:"rated_at" bson:"createdAt"`
}

// MovieAggregate es una película del catálogo con sus estadísticas de rating.
type MovieAggregate struct {
	MovieID     int     `json:"movie_id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	Description string  `json:"description,omitempty"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

type GenreAffinity struct {
	Genre      string  `json:"genre"`
	AvgRating  float64 `json:"avg_rating"`
	WatchCount int     `json:"watch_count"`
}

type RecommendationItem struct {
	MovieAggregate
	Reason          string `json:"recommendation_reason"`
	ExplanationType string `json:"explanation_type"`
}

// StageTrace cuenta cuántas películas aportó cada etapa del motor.
type StageTrace struct {
	Stage    string `json:"stage"`
	Selected int    `json:"selected"`
}

type RecommendationResult struct {
	Recommendations []RecommendationItem `json:"recommendations"`
	PreferredGenres []string             `json:"preferred_genres"`
	Algorithm       string               `json:"algorithm"`
	UserWatchCount  int                  `json:"user_watch_count"`
	Stages          []StageTrace         `json:"stages,omitempty"`
}

// ====== Historial de recomendaciones (colección recommendations) ======

type RecItem struct {
	MovieID         int    `bson:"movieId" json:"movie_id"`
	ExplanationType string `bson:"explanationType" json:"explanation_type"`
}

type Recommendation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          int                `bson:"userId" json:"user_id"`
	Algo            string             `bson:"algo" json:"algo"`
	PreferredGenres []string           `bson:"preferredGenres" json:"preferred_genres"`
	Items           []RecItem          `bson:"items" json:"items"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
}
