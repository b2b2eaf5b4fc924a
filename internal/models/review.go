package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review es la reseña de un usuario. Hay como máximo una por (userId, movieId).
type Review struct {
	ID         primitive.ObjectID `json:"review_id" bson:"_id,omitempty"`
	UserID     int                `json:"user_id" bson:"userId"`
	MovieID    int                `json:"movie_id" bson:"movieId"`
	Rating     int                `json:"rating" bson:"rating"`
	Comment    string             `json:"comment" bson:"comment"`
	CreatedAt  time.Time          `json:"created_at" bson:"createdAt"`
	ReviewDate time.Time          `json:"review_date" bson:"reviewDate"`
}

type ReviewRequest struct {
	MovieID int    `json:"movie_id" validate:"required,min=1"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

type ReviewWithAuthor struct {
	Review `bson:",inline"`
	Name   string `json:"name" bson:"name"`
}

type ReviewWithMovie struct {
	Review `bson:",inline"`
	Title  string `json:"title" bson:"title"`
	Genre  string `json:"genre,omitempty" bson:"genre,omitempty"`
}

type ReviewStats struct {
	ReviewCount      int     `json:"review_count" bson:"reviewCount"`
	AvgRating        float64 `json:"avg_rating" bson:"avgRating"`
	AvgRatingRounded float64 `json:"avg_rating_rounded" bson:"-"`
	MinRating        *int    `json:"min_rating" bson:"minRating"`
	MaxRating        *int    `json:"max_rating" bson:"maxRating"`
}

// ReviewResult es la respuesta del upsert.
type ReviewResult struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
	MovieID int    `json:"movie_id"`
	Rating  int    `json:"rating"`
	Created bool   `json:"-"`
}
