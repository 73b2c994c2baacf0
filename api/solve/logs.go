package solve

import (
	"context"
	"net/http"
	"time"

	"github.com/kilianp07/powerplant/core/dispatch/logging"
)

// LogQuerier reads stored solve logs. Every logging.LogStore implements it.
type LogQuerier interface {
	Query(ctx context.Context, q logging.LogQuery) ([]logging.LogRecord, error)
}

// NewLogHandler returns an HTTP handler exposing solve logs via
// GET /api/solve/logs?start=&end=&plant=&outcome=. Times are RFC 3339.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty.
func NewLogHandler(store LogQuerier, token string) http.Handler {
	return RequireToken(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{"method not allowed"})
			return
		}
		params := r.URL.Query()
		q := logging.LogQuery{
			Plant:   params.Get("plant"),
			Outcome: params.Get("outcome"),
		}
		for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
			s := params.Get(name)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{"invalid " + name + ": " + err.Error()})
				return
			}
			*dst = t
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{err.Error()})
			return
		}
		if records == nil {
			records = []logging.LogRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}))
}
