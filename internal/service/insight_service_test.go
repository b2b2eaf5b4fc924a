package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinoco-api/internal/models"
)

func TestTrustCachesReport(t *testing.T) {
	reviews := newFakeReviews()
	reviews.raters[1] = []models.ReviewerRating{{UserID: 1, Rating: 4, ReviewerReviewCount: 10}}
	cache := newFakeCache()
	svc := NewInsightService(newFakeMovies(), reviews, cache, time.Hour)
	ctx := context.Background()

	first, err := svc.Trust(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first.ReviewCount != 1 || first.RatingConsistency != 100 {
		t.Fatalf("report = %+v", first)
	}

	// lo cacheado gana aunque cambien las reseñas
	reviews.raters[1] = nil
	second, err := svc.Trust(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if second.TrustScore != first.TrustScore || second.ReviewCount != 1 {
		t.Errorf("cached report = %+v, want %+v", second, first)
	}
}

func TestTrustWithoutReviewsIsZero(t *testing.T) {
	svc := NewInsightService(newFakeMovies(), newFakeReviews(), newFakeCache(), time.Hour)
	r, err := svc.Trust(context.Background(), 404)
	if err != nil {
		t.Fatal(err)
	}
	if r.TrustScore != 0 || r.ReviewCount != 0 || r.RatingDistribution != nil {
		t.Errorf("report = %+v", r)
	}
}

func TestExplain(t *testing.T) {
	movies := newFakeMovies(models.Movie{
		MovieID: 1, Title: "Heat", Genre: "Crime",
		RatingStats: &models.RatingStats{Average: 4.6, Count: 60},
	})
	movies.counts.atOrBelow = 9
	movies.counts.total = 10
	reviews := newFakeReviews()
	reviews.liked[5] = []models.RatedMovie{
		{MovieID: 2, Genre: "Crime", Rating: 5},
		{MovieID: 3, Genre: "Drama", Rating: 4},
	}
	reviews.recent = 6
	svc := NewInsightService(movies, reviews, newFakeCache(), time.Hour)
	ctx := context.Background()

	uid := 5
	rep, err := svc.Explain(ctx, 1, &uid)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Movie.ID != 1 || rep.Movie.ReviewCount != 60 {
		t.Errorf("movie = %+v", rep.Movie)
	}
	if rep.Scores.PersonalizationScore != 50 {
		t.Errorf("personalization = %v, want 50", rep.Scores.PersonalizationScore)
	}
	if rep.Scores.FilterMatchScore != 100 {
		t.Errorf("filter = %v, want 100", rep.Scores.FilterMatchScore)
	}
	// (90 + 60/100*50) / 2
	if rep.Scores.PopularityScore != 60 {
		t.Errorf("popularity = %v, want 60", rep.Scores.PopularityScore)
	}
	if len(rep.Factors.Trending) != 1 {
		t.Errorf("trending factors = %+v", rep.Factors.Trending)
	}

	anon, err := svc.Explain(ctx, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if anon.Scores.PersonalizationScore != 0 || len(anon.Factors.Personalization) != 0 {
		t.Errorf("anonymous personalization = %+v", anon.Factors.Personalization)
	}

	if _, err := svc.Explain(ctx, 99, nil); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("unknown movie err = %v", err)
	}
}
