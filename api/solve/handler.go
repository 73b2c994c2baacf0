// Package solve exposes the production plan calculator over HTTP.
package solve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/powerplant/core/dispatch"
	"github.com/kilianp07/powerplant/core/logger"
	"github.com/kilianp07/powerplant/core/model"
)

// MaxBodyBytes bounds the size of a request body.
const MaxBodyBytes = 1 << 20

// Solver computes a production plan. *dispatch.DispatchManager implements it.
type Solver interface {
	Solve(ctx context.Context, problem model.Problem) (dispatch.Result, error)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewHandler returns the handler for POST /productionplan. Malformed or
// invalid bodies yield 422, loads that cannot be met 400 and broken
// allocations 500.
func NewHandler(s Solver, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{"method not allowed"})
			return
		}
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{"malformed body: " + err.Error()})
			return
		}
		problem, err := req.ToProblem()
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{err.Error()})
			return
		}
		res, err := s.Solve(r.Context(), problem)
		if res.RequestID != "" {
			w.Header().Set("X-Request-ID", res.RequestID)
		}
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, res.Configurations)
		case errors.Is(err, dispatch.ErrNoFeasibleCommitment):
			writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
		default:
			log.Errorf("production plan %s: %v", res.RequestID, err)
			writeJSON(w, http.StatusInternalServerError, errorBody{"internal error"})
		}
	})
}

// RequireToken rejects requests lacking "Authorization: Bearer <token>".
// An empty token disables the check.
func RequireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, errorBody{"unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health answers 200 to any request.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RouterConfig gathers the dependencies of NewRouter.
type RouterConfig struct {
	Solver Solver
	// Logs is optional; without it the log endpoint is not mounted.
	Logs   LogQuerier
	Token  string
	Logger logger.Logger
}

// NewRouter mounts the production plan endpoints:
//
//	POST /productionplan
//	POST /solve
//	GET  /api/solve/logs
//	GET  /healthz
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	plan := RequireToken(cfg.Token, NewHandler(cfg.Solver, cfg.Logger))
	mux.Handle("/productionplan", plan)
	mux.Handle("/solve", plan)
	if cfg.Logs != nil {
		mux.Handle("/api/solve/logs", NewLogHandler(cfg.Logs, cfg.Token))
	}
	mux.HandleFunc("/healthz", Health)
	return mux
}
