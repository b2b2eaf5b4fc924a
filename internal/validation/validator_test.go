package validation

import (
	"errors"
	"strings"
	"testing"

	"dinoco-api/internal/models"
)

func TestReviewRequestRatingBounds(t *testing.T) {
	tests := []struct {
		rating  int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{5, false},
		{6, true},
		{-3, true},
	}
	for _, tt := range tests {
		err := ValidateStruct(&models.ReviewRequest{MovieID: 1, Rating: tt.rating})
		if (err != nil) != tt.wantErr {
			t.Errorf("rating %d: err = %v, wantErr %v", tt.rating, err, tt.wantErr)
		}
	}
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	err := ValidateStruct(&models.ReviewRequest{MovieID: 1, Rating: 9})

	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "rating" {
		t.Fatalf("fields = %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "rating must be at most 5" {
		t.Errorf("message = %q", verr.Fields[0].Message)
	}
}

func TestDecisionTraceSource(t *testing.T) {
	ok := models.DecisionTraceRequest{MovieID: 1, TracePath: []string{"home"}, DecisionSource: "search"}
	if err := ValidateStruct(&ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := ok
	bad.DecisionSource = "telepathy"
	err := ValidateStruct(&bad)
	if err == nil || !strings.Contains(err.Error(), "decision_source must be one of") {
		t.Errorf("err = %v", err)
	}

	empty := ok
	empty.TracePath = nil
	if err := ValidateStruct(&empty); err == nil {
		t.Error("empty trace_path should fail")
	}
}

func TestMovieCreateRequest(t *testing.T) {
	if err := ValidateStruct(&models.MovieCreateRequest{}); err == nil {
		t.Error("title is required")
	}
	err := ValidateStruct(&models.MovieCreateRequest{Title: "Heat", PosterURL: "not a url"})
	if err == nil || !strings.Contains(err.Error(), "poster_url") {
		t.Errorf("err = %v", err)
	}
}
