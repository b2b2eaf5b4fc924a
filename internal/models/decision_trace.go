package models

import "time"

const (
	SourceSearch         = "search"
	SourceFilter         = "filter"
	SourceTrending       = "trending"
	SourceRecommendation = "recommendation"
	SourceBrowse         = "browse"
	SourceDirect         = "direct"
)

// DecisionSources en el orden en que se desempata el método preferido.
var DecisionSources = []string{
	SourceSearch, SourceFilter, SourceTrending, SourceRecommendation, SourceBrowse, SourceDirect,
}

type DecisionTrace struct {
	TraceID          int       `json:"trace_id" bson:"traceId"`
	UserID           *int      `json:"user_id" bson:"userId,omitempty"`
	MovieID          int       `json:"movie_id" bson:"movieId"`
	TracePath        []string  `json:"trace_path" bson:"tracePath"`
	TraceSummary     string    `json:"trace_summary" bson:"traceSummary"`
	DecisionSource   string    `json:"decision_source" bson:"decisionSource"`
	NumSteps         int       `json:"num_steps" bson:"numSteps"`
	TimeSpentSeconds int       `json:"time_spent_seconds" bson:"timeSpentSeconds"`
	CreatedAt        time.Time `json:"created_at" bson:"createdAt"`
}

type DecisionTraceWithTitle struct {
	DecisionTrace `bson:",inline"`
	Title         string `json:"title" bson:"title"`
}

type DecisionTraceRequest struct {
	MovieID          int      `json:"movie_id" validate:"required,min=1"`
	TracePath        []string `json:"trace_path" validate:"required,min=1,dive,required,max=200"`
	DecisionSource   string   `json:"decision_source" validate:"omitempty,oneof=search filter trending recommendation browse direct"`
	TimeSpentSeconds int      `json:"time_spent_seconds" validate:"min=0"`
}

type DecisionTraceCreated struct {
	TraceID        int    `json:"trace_id"`
	TraceSummary   string `json:"trace_summary"`
	DecisionSource string `json:"decision_source"`
}

type TraceAnalytics struct {
	DecisionSources  map[string]int `json:"decision_sources"`
	AverageSteps     float64        `json:"average_steps"`
	MostCommonPath   *string        `json:"most_common_path"`
	PathDistribution map[string]int `json:"path_distribution"`
}

type MovieTraceReport struct {
	TotalTraces int             `json:"total_traces"`
	Traces      []DecisionTrace `json:"traces"`
	Analytics   TraceAnalytics  `json:"analytics"`
}

type UserBehavior struct {
	TotalTraces          int            `json:"total_traces"`
	DecisionMethods      map[string]int `json:"decision_methods"`
	PreferredMethod      string         `json:"preferred_method"`
	AverageDecisionSteps float64        `json:"average_decision_steps"`
}

type UserTraceReport struct {
	Traces       []DecisionTraceWithTitle `json:"traces"`
	UserBehavior UserBehavior             `json:"user_behavior"`
}
