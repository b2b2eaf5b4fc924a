package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogTotals struct {
	TotalMovies  int64 `json:"total_movies"`
	TotalUsers   int64 `json:"total_users"`
	TotalReviews int64 `json:"total_reviews"`
}

type AnalyticsOverview struct {
	CatalogTotals
	ActiveReviewers30d   int   `json:"active_reviewers_30d"`
	MoviesWithoutReviews int64 `json:"movies_without_reviews"`
}

type MovieSummary struct {
	MovieID     int     `json:"movie_id" bson:"movieId"`
	Title       string  `json:"title" bson:"title"`
	PosterURL   string  `json:"poster_url,omitempty" bson:"posterUrl,omitempty"`
	ReviewCount int     `json:"review_count" bson:"reviewCount"`
	AvgRating   float64 `json:"avg_rating" bson:"avgRating"`
}

type RecentReview struct {
	ReviewID   primitive.ObjectID `json:"review_id" bson:"_id"`
	Rating     int                `json:"rating" bson:"rating"`
	Comment    string             `json:"comment" bson:"comment"`
	ReviewDate time.Time          `json:"review_date" bson:"reviewDate"`
	UserName   string             `json:"user_name" bson:"userName"`
	MovieTitle string             `json:"movie_title" bson:"movieTitle"`
}

type RatingBucket struct {
	Rating int `json:"rating" bson:"_id"`
	Count  int `json:"count" bson:"count"`
}

type AdminAnalytics struct {
	Overview           AnalyticsOverview `json:"overview"`
	TopReviewedMovies  []MovieSummary    `json:"top_reviewed_movies"`
	TopRatedMovies     []MovieSummary    `json:"top_rated_movies"`
	RecentReviews      []RecentReview    `json:"recent_reviews"`
	RatingDistribution []RatingBucket    `json:"rating_distribution"`
}

// HostStats es el snapshot del host para el monitoreo de admin.
type HostStats struct {
	Hostname       string  `json:"hostname"`
	OS             string  `json:"os"`
	Platform       string  `json:"platform"`
	UptimeSeconds  uint64  `json:"uptime_seconds"`
	CPUPercent     float64 `json:"cpu_percent"`
	CPUCores       int     `json:"cpu_cores"`
	MemTotalBytes  uint64  `json:"mem_total_bytes"`
	MemUsedBytes   uint64  `json:"mem_used_bytes"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	Goroutines     int     `json:"goroutines"`
	HeapAllocBytes uint64  `json:"heap_alloc_bytes"`
	GoVersion      string  `json:"go_version"`
}

type MonitoringStatus struct {
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies"`
	Host         HostStats         `json:"host"`
}
