package service

import (
	"context"
	"math"
	"strings"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/metrics"
	"dinoco-api/internal/models"
)

const (
	pathSeparator         = " → "
	summarySteps          = 5
	commonPathSteps       = 4
	movieTraceWindow      = 100
	movieTraceSample      = 10
	DefaultUserTraceLimit = 20
	MaxUserTraceLimit     = 200
)

type DecisionTraceService struct {
	traces TraceStore
	now    func() time.Time
}

func NewDecisionTraceService(t TraceStore) *DecisionTraceService {
	return &DecisionTraceService{
		traces: t,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record guarda cómo llegó el usuario a la película. userID es nil si es anónimo.
func (s *DecisionTraceService) Record(ctx context.Context, userID *int, req models.DecisionTraceRequest) (*models.DecisionTraceCreated, error) {
	source := req.DecisionSource
	if source == "" {
		source = models.SourceBrowse
	}

	t := &models.DecisionTrace{
		UserID:           userID,
		MovieID:          req.MovieID,
		TracePath:        req.TracePath,
		TraceSummary:     joinSteps(req.TracePath, summarySteps),
		DecisionSource:   source,
		NumSteps:         len(req.TracePath),
		TimeSpentSeconds: req.TimeSpentSeconds,
		CreatedAt:        s.now(),
	}
	if err := s.traces.Insert(ctx, t); err != nil {
		return nil, err
	}
	metrics.DecisionTraces.WithLabelValues(source).Inc()
	logging.Ctx(ctx).Info().
		Int("trace_id", t.TraceID).
		Int("movie_id", t.MovieID).
		Str("source", source).
		Msg("decision trace recorded")

	return &models.DecisionTraceCreated{
		TraceID:        t.TraceID,
		TraceSummary:   t.TraceSummary,
		DecisionSource: source,
	}, nil
}

// ForMovie analiza las últimas trazas de una película.
func (s *DecisionTraceService) ForMovie(ctx context.Context, movieID int) (*models.MovieTraceReport, error) {
	traces, err := s.traces.ListByMovie(ctx, movieID, movieTraceWindow)
	if err != nil {
		return nil, err
	}

	sample := traces
	if len(sample) > movieTraceSample {
		sample = sample[:movieTraceSample]
	}
	return &models.MovieTraceReport{
		TotalTraces: len(traces),
		Traces:      sample,
		Analytics:   analyzeTraces(traces),
	}, nil
}

// ForUser devuelve las trazas del usuario y su perfil de decisión.
func (s *DecisionTraceService) ForUser(ctx context.Context, userID, limit int) (*models.UserTraceReport, error) {
	if limit <= 0 {
		limit = DefaultUserTraceLimit
	} else if limit > MaxUserTraceLimit {
		limit = MaxUserTraceLimit
	}

	traces, err := s.traces.ListByUserWithTitle(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return &models.UserTraceReport{
		Traces:       traces,
		UserBehavior: userBehavior(traces),
	}, nil
}

// analyzeTraces espera las trazas de la más nueva a la más vieja; ante
// empate gana el camino que apareció primero.
func analyzeTraces(traces []models.DecisionTrace) models.TraceAnalytics {
	out := models.TraceAnalytics{
		DecisionSources:  map[string]int{},
		PathDistribution: map[string]int{},
	}
	if len(traces) == 0 {
		return out
	}

	var steps int
	var order []string
	for _, t := range traces {
		out.DecisionSources[t.DecisionSource]++
		steps += t.NumSteps

		key := joinSteps(t.TracePath, commonPathSteps)
		if _, seen := out.PathDistribution[key]; !seen {
			order = append(order, key)
		}
		out.PathDistribution[key]++
	}
	out.AverageSteps = round1(float64(steps) / float64(len(traces)))

	best := order[0]
	for _, k := range order[1:] {
		if out.PathDistribution[k] > out.PathDistribution[best] {
			best = k
		}
	}
	out.MostCommonPath = &best
	return out
}

// userBehavior cuenta las seis fuentes siempre; el método preferido desempata
// por el orden de models.DecisionSources.
func userBehavior(traces []models.DecisionTraceWithTitle) models.UserBehavior {
	methods := make(map[string]int, len(models.DecisionSources))
	for _, src := range models.DecisionSources {
		methods[src] = 0
	}

	var steps int
	for _, t := range traces {
		methods[t.DecisionSource]++
		steps += t.NumSteps
	}

	preferred := models.DecisionSources[0]
	for _, src := range models.DecisionSources[1:] {
		if methods[src] > methods[preferred] {
			preferred = src
		}
	}

	var avg float64
	if len(traces) > 0 {
		avg = round1(float64(steps) / float64(len(traces)))
	}
	return models.UserBehavior{
		TotalTraces:          len(traces),
		DecisionMethods:      methods,
		PreferredMethod:      preferred,
		AverageDecisionSteps: avg,
	}
}

func joinSteps(path []string, n int) string {
	if len(path) > n {
		path = path[:n]
	}
	return strings.Join(path, pathSeparator)
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
