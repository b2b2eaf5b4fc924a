// Package authz resuelve qué rol puede ejecutar qué capacidad (objeto, acción)
// con casbin. Los handlers nunca miran el rol directamente.
package authz

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Capacidades
const (
	ObjMovies          = "movies"
	ObjUsers           = "users"
	ObjReviews         = "reviews"
	ObjRecommendations = "recommendations"
	ObjTraces          = "traces"
	ObjAnalytics       = "analytics"
	ObjSystem          = "system"

	ActRead    = "read"
	ActReadOwn = "read_own"
	ActWrite   = "write"
	ActManage  = "manage"
)

type Enforcer struct {
	e *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{e: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	r := csv.NewReader(strings.NewReader(policy))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse policy: %w", err)
	}
	for _, row := range rows {
		switch {
		case len(row) == 4 && row[0] == "p":
			if _, err := e.AddPolicy(row[1], row[2], row[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", row, err)
			}
		case len(row) == 3 && row[0] == "g":
			if _, err := e.AddGroupingPolicy(row[1], row[2]); err != nil {
				return fmt.Errorf("add grouping %v: %w", row, err)
			}
		default:
			return fmt.Errorf("invalid policy line %v", row)
		}
	}
	return nil
}

// Can devuelve true si el rol tiene la capacidad. Un error del enforcer cuenta como denegado.
func (en *Enforcer) Can(role, obj, act string) bool {
	if role == "" {
		return false
	}
	ok, err := en.e.Enforce(role, obj, act)
	return err == nil && ok
}

// Require es el middleware de capacidades. roleOf saca el rol del request
// (lo dejó el middleware JWT).
func (en *Enforcer) Require(roleOf func(*http.Request) string, obj, act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleOf(r)
			if role == "" {
				writeDenied(w, http.StatusUnauthorized, "Token required")
				return
			}
			if !en.Can(role, obj, act) {
				writeDenied(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"message":%q}`, msg)
}
