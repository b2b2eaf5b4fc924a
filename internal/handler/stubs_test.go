package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dinoco-api/internal/authz"
	"dinoco-api/internal/models"
	"dinoco-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const testSecret = "test-secret"

// Los stubs embeben la interfaz: un método no sobreescrito entra en pánico
// si algún test lo llama sin querer.

type stubAuth struct {
	AuthAPI
	registered  []service.RegisterUserData
	registerErr error
	updated     *service.UpdateUserData
}

func (s *stubAuth) Register(_ context.Context, data service.RegisterUserData) (*models.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = append(s.registered, data)
	return &models.User{UserID: 1, Name: data.Name, Email: data.Email, Role: models.RoleUser}, nil
}

func (s *stubAuth) UpdateUser(_ context.Context, id int, data service.UpdateUserData) (*models.User, error) {
	s.updated = &data
	return &models.User{UserID: id, Name: *data.Name, Role: models.RoleUser}, nil
}

type stubMovies struct {
	MovieAPI
	created []models.MovieCreateRequest
}

func (s *stubMovies) GetMovie(_ context.Context, id int) (*models.Movie, error) {
	if id != 1 {
		return nil, service.ErrMovieNotFound
	}
	return &models.Movie{MovieID: 1, Title: "Alien"}, nil
}

func (s *stubMovies) CreateMovie(_ context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	s.created = append(s.created, *req)
	return &models.Movie{MovieID: 7, Title: req.Title}, nil
}

func (s *stubMovies) Search(_ context.Context, p service.SearchParams) (*models.MovieSearchResult, error) {
	return &models.MovieSearchResult{Movies: []models.Movie{{MovieID: 1, Title: p.Query}}}, nil
}

type stubReviews struct {
	ReviewAPI
	lastUser int
	existing map[int]bool
}

func (s *stubReviews) AddOrUpdate(_ context.Context, userID int, req models.ReviewRequest) (*models.ReviewResult, error) {
	if req.MovieID == 404 {
		return nil, service.ErrMovieNotFound
	}
	s.lastUser = userID
	created := !s.existing[req.MovieID]
	if s.existing == nil {
		s.existing = map[int]bool{}
	}
	s.existing[req.MovieID] = true
	return &models.ReviewResult{Message: "ok", UserID: userID, MovieID: req.MovieID, Rating: req.Rating, Created: created}, nil
}

func (s *stubReviews) GetUserReview(context.Context, int, int) (*models.Review, error) {
	return nil, nil
}

type stubRecommend struct {
	RecommendAPI
	res  *models.RecommendationResult
	err  error
	reqs []service.RecRequest
}

func (s *stubRecommend) Recommend(_ context.Context, req service.RecRequest) (*models.RecommendationResult, error) {
	s.reqs = append(s.reqs, req)
	return s.res, s.err
}

type stubInsights struct {
	InsightAPI
	gotUser *int
	called  bool
}

func (s *stubInsights) Explain(_ context.Context, movieID int, userID *int) (*models.ExplanationReport, error) {
	s.called = true
	s.gotUser = userID
	return &models.ExplanationReport{Movie: models.ExplainedMovie{ID: movieID}}, nil
}

type stubTraces struct {
	TraceAPI
	gotUser *int
	gotReq  models.DecisionTraceRequest
}

func (s *stubTraces) Record(_ context.Context, userID *int, req models.DecisionTraceRequest) (*models.DecisionTraceCreated, error) {
	s.gotUser = userID
	s.gotReq = req
	return &models.DecisionTraceCreated{TraceID: 1, TraceSummary: strings.Join(req.TracePath, " → "), DecisionSource: "browse"}, nil
}

type stubAnalytics struct{ AnalyticsAPI }

func (stubAnalytics) Admin(context.Context) (*models.AdminAnalytics, error) {
	return &models.AdminAnalytics{}, nil
}

type stubMonitor struct {
	deps    map[string]string
	healthy bool
}

func (s stubMonitor) Dependencies(context.Context) (map[string]string, bool) {
	return s.deps, s.healthy
}

func (s stubMonitor) Status(context.Context) models.MonitoringStatus {
	return models.MonitoringStatus{Dependencies: s.deps}
}

type testAPI struct {
	router    http.Handler
	tokens    *service.TokenManager
	auth      *stubAuth
	movies    *stubMovies
	reviews   *stubReviews
	recommend *stubRecommend
	insights  *stubInsights
	traces    *stubTraces
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	en, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	api := &testAPI{
		tokens:    service.NewTokenManager(testSecret, time.Hour),
		auth:      &stubAuth{},
		movies:    &stubMovies{},
		reviews:   &stubReviews{},
		recommend: &stubRecommend{res: &models.RecommendationResult{}},
		insights:  &stubInsights{},
		traces:    &stubTraces{},
	}
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		MountAPIRoutes(r, Routes{
			Tokens:    api.tokens,
			Enforcer:  en,
			Auth:      NewAuthHandler(api.auth),
			Movies:    NewMovieHandler(api.movies),
			Reviews:   NewReviewHandler(api.reviews),
			Recommend: NewRecommendHandler(api.recommend),
			Insights:  NewInsightHandler(api.insights),
			Traces:    NewDecisionTraceHandler(api.traces),
			Stats:     NewStatsHandler(stubAnalytics{}, stubMonitor{healthy: true}),
		})
	})
	api.router = r
	return api
}

func (a *testAPI) token(t *testing.T, userID int, role string) string {
	t.Helper()
	tok, err := a.tokens.Issue(&models.User{UserID: userID, Email: "u@x.io", Role: role})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
