package handler

import (
	"net/http"
	"testing"
)

func TestExplainAlgorithmOptionalAuth(t *testing.T) {
	api := newTestAPI(t)

	if rec := api.do(http.MethodGet, "/api/explain-algorithm/3", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", rec.Code)
	}
	if api.insights.gotUser != nil {
		t.Errorf("anonymous user = %v, want nil", *api.insights.gotUser)
	}

	if rec := api.do(http.MethodGet, "/api/explain-algorithm/3", "", api.token(t, 8, "user")); rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
	if api.insights.gotUser == nil || *api.insights.gotUser != 8 {
		t.Errorf("user = %v, want 8", api.insights.gotUser)
	}

	// token inválido: se trata como anónimo
	if rec := api.do(http.MethodGet, "/api/explain-algorithm/3", "", "garbage"); rec.Code != http.StatusOK {
		t.Fatalf("bad token status = %d, want 200", rec.Code)
	}
	if api.insights.gotUser != nil {
		t.Error("invalid token produced a user")
	}
}

func TestExplainAlgorithmBadID(t *testing.T) {
	api := newTestAPI(t)
	if rec := api.do(http.MethodGet, "/api/explain-algorithm/x", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if api.insights.called {
		t.Error("service called with invalid id")
	}
}
