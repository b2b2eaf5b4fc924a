package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dinoco-api/internal/models"
	"dinoco-api/internal/repository"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ====== usuarios ======

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[int]*models.User
	next  int
	found []string
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int]*models.User{}} }

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.found = append(f.found, email)
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetNextUserID(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.byID {
		if other.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	f.byID[u.UserID] = &cp
	return nil
}

func (f *fakeUsers) UpdateByID(_ context.Context, id int, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for k, v := range update {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "role":
			u.Role = v.(string)
		case "passwordHash":
			u.PasswordHash = v.(string)
		case "updatedAt":
			u.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (f *fakeUsers) Search(_ context.Context, role, q string, limit, offset int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.byID {
		if role != "" && role != "all" && u.Role != role {
			continue
		}
		if q != "" && !strings.Contains(u.Email, q) && !strings.Contains(u.Name, q) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

// ====== OTPs ======

type fakeOTPs struct {
	mu   sync.Mutex
	rows []*models.LoginOTP
}

func (f *fakeOTPs) ConsumeAllForUser(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.rows {
		if o.UserID == userID {
			o.Consumed = true
		}
	}
	return nil
}

func (f *fakeOTPs) Insert(_ context.Context, otp *models.LoginOTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	cp := *otp
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeOTPs) LatestActive(_ context.Context, userID int, now time.Time) (*models.LoginOTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		o := f.rows[i]
		if o.UserID == userID && !o.Consumed && o.ExpiresAt.After(now) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPs) Consume(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.rows {
		if o.ID == id && !o.Consumed {
			o.Consumed = true
			return true, nil
		}
	}
	return false, nil
}

// ====== mailer ======

type fakeMailer struct {
	err   error
	codes []string
}

func (m *fakeMailer) SendOTP(_ context.Context, _ string, code string, _ time.Duration) error {
	m.codes = append(m.codes, code)
	return m.err
}

// ====== cache ======

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

// ====== películas ======

type fakeMovies struct {
	mu     sync.Mutex
	byID   map[int]*models.Movie
	next   int
	stats  map[int]models.RatingStats
	counts struct{ atOrBelow, total, withoutReviews int64 }
}

func newFakeMovies(ms ...models.Movie) *fakeMovies {
	f := &fakeMovies{byID: map[int]*models.Movie{}, stats: map[int]models.RatingStats{}}
	for i := range ms {
		m := ms[i]
		f.byID[m.MovieID] = &m
		if m.MovieID > f.next {
			f.next = m.MovieID
		}
	}
	return f
}

func (f *fakeMovies) sorted() []models.Movie {
	out := []models.Movie{}
	for _, m := range f.byID {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID > out[j].MovieID })
	return out
}

func (f *fakeMovies) GetByID(_ context.Context, id int) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMovies) List(context.Context) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(), nil
}

func (f *fakeMovies) Filter(_ context.Context, genre string, yearFrom, yearTo int) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Movie{}
	for _, m := range f.sorted() {
		if genre != "" && m.Genre != genre {
			continue
		}
		if yearFrom > 0 && m.ReleaseYear < yearFrom {
			continue
		}
		if yearTo > 0 && m.ReleaseYear > yearTo {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMovies) Top(_ context.Context, _ string, limit int) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMovies) TopSummaries(_ context.Context, _ string, _ int, _ int) ([]models.MovieSummary, error) {
	return []models.MovieSummary{}, nil
}

func (f *fakeMovies) Catalog(context.Context) ([]models.MovieAggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MovieAggregate{}
	for _, m := range f.sorted() {
		out = append(out, m.Aggregate())
	}
	return out, nil
}

func (f *fakeMovies) GetNextMovieID(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

func (f *fakeMovies) Insert(_ context.Context, m *models.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.byID[m.MovieID] = &cp
	return nil
}

func (f *fakeMovies) UpdateFields(_ context.Context, id int, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["title"]; ok {
		m.Title = v.(string)
	}
	if v, ok := update["genre"]; ok {
		m.Genre = v.(string)
	}
	if v, ok := update["releaseYear"]; ok {
		m.ReleaseYear = v.(int)
	}
	return nil
}

func (f *fakeMovies) SetRatingStats(_ context.Context, id int, st models.RatingStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.RatingStats = &st
	f.stats[id] = st
	return nil
}

func (f *fakeMovies) Delete(_ context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeMovies) Count(context.Context) (int64, error) {
	if f.counts.total > 0 {
		return f.counts.total, nil
	}
	return int64(len(f.byID)), nil
}

func (f *fakeMovies) CountAtOrBelow(context.Context, float64) (int64, error) {
	return f.counts.atOrBelow, nil
}

func (f *fakeMovies) CountWithoutReviews(context.Context) (int64, error) {
	return f.counts.withoutReviews, nil
}

// ====== reseñas ======

type fakeReviews struct {
	mu      sync.Mutex
	rows    []models.Review
	rated   map[int][]models.RatedMovie
	liked   map[int][]models.RatedMovie
	raters  map[int][]models.ReviewerRating
	recent  int64
	deleted []int

	ratedCalls int
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{
		rated:  map[int][]models.RatedMovie{},
		liked:  map[int][]models.RatedMovie{},
		raters: map[int][]models.ReviewerRating{},
	}
}

func (f *fakeReviews) GetOne(_ context.Context, userID, movieID int) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.MovieID == movieID {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReviews) Upsert(_ context.Context, userID, movieID, rating int, comment string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].MovieID == movieID {
			f.rows[i].Rating = rating
			f.rows[i].Comment = comment
			f.rows[i].ReviewDate = now
			return false, nil
		}
	}
	f.rows = append(f.rows, models.Review{
		UserID: userID, MovieID: movieID, Rating: rating, Comment: comment,
		CreatedAt: now, ReviewDate: now,
	})
	return true, nil
}

func (f *fakeReviews) ListByMovie(_ context.Context, movieID int) ([]models.ReviewWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReviewWithAuthor{}
	for _, r := range f.rows {
		if r.MovieID == movieID {
			out = append(out, models.ReviewWithAuthor{Review: r})
		}
	}
	return out, nil
}

func (f *fakeReviews) ListByUser(_ context.Context, userID int) ([]models.ReviewWithMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReviewWithMovie{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, models.ReviewWithMovie{Review: r})
		}
	}
	return out, nil
}

func (f *fakeReviews) Stats(_ context.Context, movieID int) (*models.ReviewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &models.ReviewStats{}
	var sum int
	for _, r := range f.rows {
		if r.MovieID != movieID {
			continue
		}
		rating := r.Rating
		if st.MinRating == nil || rating < *st.MinRating {
			st.MinRating = &rating
		}
		if st.MaxRating == nil || rating > *st.MaxRating {
			v := rating
			st.MaxRating = &v
		}
		st.ReviewCount++
		sum += rating
	}
	if st.ReviewCount > 0 {
		st.AvgRating = float64(sum) / float64(st.ReviewCount)
	}
	return st, nil
}

func (f *fakeReviews) RatedMoviesByUser(_ context.Context, userID int) ([]models.RatedMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratedCalls++
	return f.rated[userID], nil
}

func (f *fakeReviews) LikedByUser(_ context.Context, userID, limit int) ([]models.RatedMovie, error) {
	out := f.liked[userID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReviews) ReviewerRatings(_ context.Context, movieID int) ([]models.ReviewerRating, error) {
	return f.raters[movieID], nil
}

func (f *fakeReviews) CountRecentForMovie(context.Context, int, time.Time) (int64, error) {
	return f.recent, nil
}

func (f *fakeReviews) DeleteByMovie(_ context.Context, movieID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, movieID)
	var n int64
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.MovieID == movieID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeReviews) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeReviews) ActiveReviewersSince(context.Context, time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[int]bool{}
	for _, r := range f.rows {
		seen[r.UserID] = true
	}
	return len(seen), nil
}

func (f *fakeReviews) RatingDistribution(context.Context) ([]models.RatingBucket, error) {
	return []models.RatingBucket{}, nil
}

func (f *fakeReviews) Recent(context.Context, int) ([]models.RecentReview, error) {
	return []models.RecentReview{}, nil
}

// ====== trazas ======

type fakeTraces struct {
	mu      sync.Mutex
	rows    []models.DecisionTrace
	byUser  []models.DecisionTraceWithTitle
	deleted []int
	next    int
}

func (f *fakeTraces) Insert(_ context.Context, t *models.DecisionTrace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	t.TraceID = f.next
	f.rows = append(f.rows, *t)
	return nil
}

func (f *fakeTraces) ListByMovie(_ context.Context, movieID, limit int) ([]models.DecisionTrace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.DecisionTrace{}
	for _, t := range f.rows {
		if t.MovieID == movieID && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTraces) ListByUserWithTitle(_ context.Context, _ int, limit int) ([]models.DecisionTraceWithTitle, error) {
	out := f.byUser
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTraces) DeleteByMovie(_ context.Context, movieID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, movieID)
	return 0, nil
}

// ====== historial de recomendaciones ======

type fakeRecHistory struct {
	mu   sync.Mutex
	rows []models.Recommendation
}

func (f *fakeRecHistory) Insert(_ context.Context, rec *models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *rec)
	return nil
}

func (f *fakeRecHistory) FindByUser(_ context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Recommendation{}
	for _, r := range f.rows {
		if r.UserID == userID && int64(len(out)) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}
