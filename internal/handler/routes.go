package handler

import (
	"net/http"

	"dinoco-api/internal/authz"

	"github.com/go-chi/chi/v5"
)

// Routes agrupa lo que necesita MountAPIRoutes.
type Routes struct {
	Tokens    TokenParser
	Enforcer  *authz.Enforcer
	AuthLimit func(http.Handler) http.Handler

	Auth      *AuthHandler
	Movies    *MovieHandler
	Reviews   *ReviewHandler
	Recommend *RecommendHandler
	Insights  *InsightHandler
	Traces    *DecisionTraceHandler
	Stats     *StatsHandler
}

// MountAPIRoutes cuelga toda la API bajo r (main lo monta en /api).
func MountAPIRoutes(r chi.Router, rt Routes) {
	authMw := JWTAuth(rt.Tokens)
	optionalMw := OptionalJWT(rt.Tokens)
	can := func(obj, act string) func(http.Handler) http.Handler {
		return rt.Enforcer.Require(RoleFromRequest, obj, act)
	}
	authLimit := rt.AuthLimit
	if authLimit == nil {
		authLimit = func(next http.Handler) http.Handler { return next }
	}

	// =============
	// Rutas públicas
	// =============
	r.Group(func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/register", rt.Auth.Register)
		r.Post("/login", rt.Auth.Login)
		r.Post("/login/verify-otp", rt.Auth.VerifyOTP)
	})

	r.Get("/movies", rt.Movies.List)
	r.Get("/movies/search", rt.Movies.Search)
	r.Get("/movies/top", rt.Movies.Top)
	r.Get("/movies/{id}", rt.Movies.GetMovie)

	r.Get("/reviews/movie/{id}", rt.Reviews.ListByMovie)
	r.Get("/reviews/movie/{id}/stats", rt.Reviews.MovieStats)
	r.Get("/reviews/movie/{id}/user/{uid}", rt.Reviews.GetUserReview)

	r.Get("/trust-heatmap/{movie_id}", rt.Insights.TrustHeatmap)
	r.Get("/decision-trace/{movie_id}", rt.Traces.ForMovie)
	r.Get("/stats", rt.Stats.Totals)

	// token opcional: personaliza si viene
	r.Group(func(r chi.Router) {
		r.Use(optionalMw)
		r.Get("/explain-algorithm/{movie_id}", rt.Insights.ExplainAlgorithm)
		r.Post("/decision-trace", rt.Traces.Record)
	})

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.With(can(authz.ObjReviews, authz.ActWrite)).Post("/reviews", rt.Reviews.PostReview)
		r.With(can(authz.ObjReviews, authz.ActReadOwn)).Get("/reviews/user", rt.Reviews.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(can(authz.ObjRecommendations, authz.ActRead))
			r.Get("/recommendations", rt.Recommend.GetRecommendations)
			r.Get("/recommendations/history", rt.Recommend.GetHistory)
			r.Get("/ws/recommendations", rt.Recommend.GetRecommendationsWS)
		})

		r.With(can(authz.ObjTraces, authz.ActReadOwn)).Get("/user/decision-traces", rt.Traces.Mine)

		// ---- gestión de películas ----
		r.Group(func(r chi.Router) {
			r.Use(can(authz.ObjMovies, authz.ActWrite))
			r.Post("/movies", rt.Movies.CreateMovie)
			r.Put("/movies/{id}", rt.Movies.UpdateMovie)
			r.Delete("/movies/{id}", rt.Movies.DeleteMovie)
		})

		// ---- usuarios ----
		r.Group(func(r chi.Router) {
			r.Use(can(authz.ObjUsers, authz.ActManage))
			r.Get("/users", rt.Auth.ListUsers)
			r.Get("/users/{id}", rt.Auth.GetUserByID)
			r.Put("/users/{id}", rt.Auth.UpdateUser)
		})

		r.With(can(authz.ObjAnalytics, authz.ActRead)).Get("/admin/analytics", rt.Stats.AdminAnalytics)
		r.With(can(authz.ObjSystem, authz.ActRead)).Get("/admin/monitoring", rt.Stats.Monitoring)
	})
}
