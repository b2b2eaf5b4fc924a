package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dinoco-api/internal/models"
)

func catalogFixture() *fakeMovies {
	return newFakeMovies(
		models.Movie{MovieID: 1, Title: "The Matrix", Genre: "Sci-Fi", ReleaseYear: 1999},
		models.Movie{MovieID: 2, Title: "The Matrix Reloaded", Genre: "Sci-Fi", ReleaseYear: 2003},
		models.Movie{MovieID: 3, Title: "Amelie", Genre: "Romance", ReleaseYear: 2001},
		models.Movie{MovieID: 4, Title: "Alien", Genre: "Horror", ReleaseYear: 1979},
	)
}

func movieIDs(ms []models.Movie) []int {
	out := []int{}
	for _, m := range ms {
		out = append(out, m.MovieID)
	}
	return out
}

func TestSearch(t *testing.T) {
	svc := NewMovieService(catalogFixture(), newFakeReviews(), &fakeTraces{}, newFakeCache())
	ctx := context.Background()

	tests := []struct {
		name string
		p    SearchParams
		want []int
	}{
		{"no query lists newest first", SearchParams{}, []int{4, 3, 2, 1}},
		{"fuzzy title, closest first", SearchParams{Query: "matrix"}, []int{1, 2}},
		{"case insensitive", SearchParams{Query: "ALIEN"}, []int{4}},
		{"genre filter", SearchParams{Genre: "Sci-Fi"}, []int{2, 1}},
		{"year range", SearchParams{YearFrom: 2000, YearTo: 2002}, []int{3}},
		{"pagination", SearchParams{Limit: 2, Offset: 1}, []int{3, 2}},
		{"offset past end", SearchParams{Offset: 10}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(ctx, tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if got := movieIDs(res.Movies); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchSuggestions(t *testing.T) {
	svc := NewMovieService(catalogFixture(), newFakeReviews(), &fakeTraces{}, newFakeCache())

	res, err := svc.Search(context.Background(), SearchParams{Query: "Alian"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Movies) != 0 {
		t.Fatalf("expected no matches, got %v", movieIDs(res.Movies))
	}
	if !reflect.DeepEqual(res.Suggestions, []string{"Alien"}) {
		t.Errorf("suggestions = %v, want [Alien]", res.Suggestions)
	}
}

func TestTypoThreshold(t *testing.T) {
	cases := map[int]int{3: 1, 5: 1, 6: 2, 15: 2, 20: 4}
	for l, want := range cases {
		if got := typoThreshold(l); got != want {
			t.Errorf("typoThreshold(%d) = %d, want %d", l, got, want)
		}
	}
}

func TestCreateAndUpdateMovie(t *testing.T) {
	movies := catalogFixture()
	svc := NewMovieService(movies, newFakeReviews(), &fakeTraces{}, newFakeCache())
	ctx := context.Background()

	m, err := svc.CreateMovie(ctx, &models.MovieCreateRequest{Title: "  Heat ", Genre: "Crime", ReleaseYear: 1995})
	if err != nil {
		t.Fatal(err)
	}
	if m.MovieID != 5 || m.Title != "Heat" || m.CreatedAt.IsZero() {
		t.Errorf("created = %+v", m)
	}

	title := "Heat (1995)"
	updated, err := svc.UpdateMovie(ctx, m.MovieID, &models.MovieUpdateRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != title {
		t.Errorf("title = %q", updated.Title)
	}

	if _, err := svc.UpdateMovie(ctx, m.MovieID, &models.MovieUpdateRequest{}); !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("empty update err = %v", err)
	}
	if _, err := svc.UpdateMovie(ctx, 999, &models.MovieUpdateRequest{Title: &title}); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("unknown movie err = %v", err)
	}
}

func TestDeleteMovieCascades(t *testing.T) {
	movies := catalogFixture()
	reviews := newFakeReviews()
	traces := &fakeTraces{}
	cache := newFakeCache()
	svc := NewMovieService(movies, reviews, traces, cache)
	ctx := context.Background()

	if _, err := reviews.Upsert(ctx, 1, 4, 5, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteMovie(ctx, 4); err != nil {
		t.Fatal(err)
	}
	if n, _ := reviews.Count(ctx); n != 0 {
		t.Errorf("reviews left = %d", n)
	}
	if !reflect.DeepEqual(traces.deleted, []int{4}) {
		t.Errorf("traces deleted for %v", traces.deleted)
	}
	if !reflect.DeepEqual(cache.deleted, []string{trustCacheKey(4)}) {
		t.Errorf("cache deleted = %v", cache.deleted)
	}

	if err := svc.DeleteMovie(ctx, 4); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	svc := NewMovieService(newFakeMovies(), newFakeReviews(), &fakeTraces{}, newFakeCache())
	if _, err := svc.GetMovie(context.Background(), 1); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("err = %v", err)
	}
}
