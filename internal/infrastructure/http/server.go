package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// Server exposes the rate cache read path and the manual refresh trigger.
type Server struct {
	updates *application.UpdateService
	store   application.RateStore
	guard   application.RefreshGuard
	ttl     time.Duration
}

func NewServer(updates *application.UpdateService, store application.RateStore, guard application.RefreshGuard, ttl time.Duration) *Server {
	if guard == nil {
		guard = application.NoopGuard{}
	}
	return &Server{updates: updates, store: store, guard: guard, ttl: ttl}
}

// GetRates serves the full snapshot. The read path never fails: missing
// or corrupt state comes back as an empty snapshot.
func (s *Server) GetRates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.LoadSnapshot())
}

type rateResponse struct {
	Pair      domain.Pair `json:"pair"`
	Rate      float64     `json:"rate"`
	UpdatedAt time.Time   `json:"updated_at"`
	Source    string      `json:"source,omitempty"`
	Derived   bool        `json:"derived"`
	Fresh     bool        `json:"fresh"`
}

// GetRate serves one pair, deriving the reciprocal of the reverse pair
// when the requested direction is not stored.
func (s *Server) GetRate(w http.ResponseWriter, r *http.Request) {
	pair := domain.Pair(chi.URLParam(r, "pair"))
	from, to, ok := domain.SplitPair(pair)
	if !ok {
		badRequest(w, "pair must be <FROM>_<TO>")
		return
	}

	snap := s.store.LoadSnapshot()
	resp := rateResponse{Pair: domain.MakePair(from, to)}
	if q, found := snap.Pairs[resp.Pair]; found {
		resp.Rate = q.Rate
		resp.UpdatedAt = q.UpdatedAt
		resp.Source = q.Source
	} else {
		rate, err := snap.Rate(from, to)
		if err != nil {
			notFound(w)
			return
		}
		resp.Rate = rate
		resp.UpdatedAt = snap.LastRefresh
		resp.Derived = true
	}
	resp.Fresh = s.store.IsFresh(resp.UpdatedAt, s.ttl)
	writeJSON(w, http.StatusOK, resp)
}

// TriggerUpdate runs one synchronous update cycle. An optional source
// query parameter restricts the cycle to that source; an optional
// X-Idempotency-Key header deduplicates retried triggers.
func (s *Server) TriggerUpdate(w http.ResponseWriter, r *http.Request) {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		ok, err := s.guard.TryReserve(r.Context(), key)
		if err != nil {
			internalError(w)
			return
		}
		if !ok {
			conflict(w, "refresh already triggered with this idempotency key")
			return
		}
	}

	res, err := s.updates.RunUpdate(r.Context(), r.URL.Query().Get("source"))
	if err != nil {
		// Fetch failures are folded into the result; what comes back as
		// an error is a rejected source selection or a failed snapshot
		// write.
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			badRequest(w, ve.Error())
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	http.Error(w, msg, http.StatusBadRequest)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func conflict(w http.ResponseWriter, msg string) {
	http.Error(w, msg, http.StatusConflict)
}

func internalError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
