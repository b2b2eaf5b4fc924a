package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "dinoco-api/docs" // swagger docs

	"dinoco-api/internal/authz"
	"dinoco-api/internal/cache"
	"dinoco-api/internal/config"
	"dinoco-api/internal/db"
	"dinoco-api/internal/handler"
	"dinoco-api/internal/logging"
	"dinoco-api/internal/mailer"
	appmw "dinoco-api/internal/middleware"
	"dinoco-api/internal/repository"
	"dinoco-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// @title Dinoco Movie Review API
// @version 1.0
// @description Catálogo, reseñas, recomendaciones explicables y trazas de decisión
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo y Redis
	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		logging.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logging.Fatal().Err(err).Msg("mongo indexes")
	}

	checks := map[string]service.HealthCheck{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}
	store, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		// sin Redis la API funciona igual, solo sin cache
		logging.Warn().Err(err).Msg("[redis] no disponible, cache deshabilitado")
	} else {
		defer store.Close()
		checks["redis"] = store.Ping
	}

	mail := mailer.New(cfg.SMTP)
	if !mail.Enabled() {
		logging.Warn().Msg("[smtp] no configurado, los OTP solo se loguean")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logging.Fatal().Err(err).Msg("authz")
	}

	// repos
	userRepo := repository.NewUserRepository(database)
	otpRepo := repository.NewOTPRepository(database)
	movieRepo := repository.NewMovieRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	traceRepo := repository.NewDecisionTraceRepository(database)
	recRepo := repository.NewRecommendationRepository(database)

	// services
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	authSvc := service.NewAuthService(userRepo, otpRepo, mail, tokens, service.AuthOptions{
		OTPTTL:  cfg.Auth.OTPTTL,
		DevMode: cfg.IsDevelopment(),
	})
	movieSvc := service.NewMovieService(movieRepo, reviewRepo, traceRepo, store)
	reviewSvc := service.NewReviewService(reviewRepo, movieRepo, store)
	recSvc := service.NewRecommendService(reviewRepo, movieRepo, recRepo, store, cfg.Redis.RecTTL)
	insightSvc := service.NewInsightService(movieRepo, reviewRepo, store, cfg.Redis.TrustTTL)
	traceSvc := service.NewDecisionTraceService(traceRepo)
	analyticsSvc := service.NewAnalyticsService(movieRepo, userRepo, reviewRepo)
	monitorSvc := service.NewMonitoringService(checks)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestID)
	r.Use(appmw.AccessLog)
	r.Use(appmw.PrometheusMetrics)
	r.Use(middleware.Recoverer)
	r.Use(appmw.CORS(cfg.Server.CORSOrigins))

	r.Get("/health", handler.Health(monitorSvc))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		handler.MountAPIRoutes(r, handler.Routes{
			Tokens:    tokens,
			Enforcer:  enforcer,
			AuthLimit: appmw.AuthRateLimit(cfg.Server.AuthRateLimit),
			Auth:      handler.NewAuthHandler(authSvc),
			Movies:    handler.NewMovieHandler(movieSvc),
			Reviews:   handler.NewReviewHandler(reviewSvc),
			Recommend: handler.NewRecommendHandler(recSvc),
			Insights:  handler.NewInsightHandler(insightSvc),
			Traces:    handler.NewDecisionTraceHandler(traceSvc),
			Stats:     handler.NewStatsHandler(analyticsSvc, monitorSvc),
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("HTTP escuchando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("shutdown")
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("http server")
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownWindow)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown")
	}
	logging.Info().Msg("server stopped")
}
