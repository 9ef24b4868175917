package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/bluechip"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// positionRequest is the body of POST /api/positions. Numbers may be sent as
// JSON numbers or strings.
type positionRequest struct {
	Ticker        string          `json:"ticker"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// amountRequest is the body of PUT /api/cash and PUT /api/invested.
type amountRequest struct {
	Value decimal.Decimal `json:"value"`
}

// handleGetView returns the valuation at market prices.
// GET /api/view?consolidate=true
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	v := s.view(r.Context())
	if consolidate, _ := strconv.ParseBool(r.URL.Query().Get("consolidate")); consolidate {
		v = v.Consolidate()
	}
	s.writeJSON(w, http.StatusOK, v)
}

// GET /api/state
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.State())
}

// POST /api/positions
func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, invalid(err))
		return
	}
	st, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
		return st.AddPosition(req.Ticker, bluechip.Q(req.Quantity), req.PurchasePrice)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, st)
}

// DELETE /api/positions/{index}
func (s *Server) handleRemovePosition(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid index %q", bluechip.ErrInvalidInput, chi.URLParam(r, "index")))
		return
	}
	st, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
		return st.RemovePosition(index)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// PUT /api/cash and PUT /api/invested
func (s *Server) handleSetAmount(set func(bluechip.State, decimal.Decimal) bluechip.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, invalid(err))
			return
		}
		st, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
			return set(st, req.Value), nil
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, st)
	}
}

func invalid(err error) error { return fmt.Errorf("%w: %v", bluechip.ErrInvalidInput, err) }

// writeError maps the domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, bluechip.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, bluechip.ErrIndexOutOfRange):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON writes JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
