package service

import (
	"context"
	"errors"
	"testing"

	"dinoco-api/internal/models"
)

func TestAddOrUpdateReview(t *testing.T) {
	movies := newFakeMovies(models.Movie{MovieID: 1, Title: "Alien", Genre: "Horror"})
	reviews := newFakeReviews()
	cache := newFakeCache()
	svc := NewReviewService(reviews, movies, cache)
	ctx := context.Background()

	res, err := svc.AddOrUpdate(ctx, 10, models.ReviewRequest{MovieID: 1, Rating: 4, Comment: "good"})
	if err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if !res.Created || res.Message != "Review added successfully" {
		t.Fatalf("first review = %+v", res)
	}

	res, err = svc.AddOrUpdate(ctx, 10, models.ReviewRequest{MovieID: 1, Rating: 2})
	if err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if res.Created || res.Message != "Review updated successfully" {
		t.Fatalf("second review = %+v", res)
	}

	if _, err := svc.AddOrUpdate(ctx, 11, models.ReviewRequest{MovieID: 1, Rating: 5}); err != nil {
		t.Fatal(err)
	}

	st := movies.stats[1]
	if st.Count != 2 || st.Average != 3.5 || st.LastRatedAt == nil {
		t.Errorf("rating stats = %+v, want count 2 avg 3.5", st)
	}

	want := map[string]bool{recCacheKey(10): true, recCacheKey(11): true, trustCacheKey(1): true}
	for _, k := range cache.deleted {
		delete(want, k)
	}
	if len(want) != 0 {
		t.Errorf("cache keys not invalidated: %v", want)
	}
}

func TestAddOrUpdateReviewUnknownMovie(t *testing.T) {
	svc := NewReviewService(newFakeReviews(), newFakeMovies(), newFakeCache())
	_, err := svc.AddOrUpdate(context.Background(), 1, models.ReviewRequest{MovieID: 42, Rating: 3})
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("err = %v, want ErrMovieNotFound", err)
	}
}

func TestReviewStatsRounded(t *testing.T) {
	movies := newFakeMovies(models.Movie{MovieID: 1, Title: "Alien"})
	reviews := newFakeReviews()
	svc := NewReviewService(reviews, movies, newFakeCache())
	ctx := context.Background()

	for uid, r := range map[int]int{1: 5, 2: 4, 3: 4} {
		if _, err := svc.AddOrUpdate(ctx, uid, models.ReviewRequest{MovieID: 1, Rating: r}); err != nil {
			t.Fatal(err)
		}
	}
	st, err := svc.Stats(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if st.ReviewCount != 3 || st.AvgRatingRounded != 4.3 || *st.MinRating != 4 || *st.MaxRating != 5 {
		t.Errorf("stats = %+v", st)
	}

	empty, err := svc.Stats(ctx, 99)
	if err != nil {
		t.Fatal(err)
	}
	if empty.ReviewCount != 0 || empty.MinRating != nil {
		t.Errorf("empty stats = %+v", empty)
	}
}
