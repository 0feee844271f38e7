// Package server exposes the board over HTTP and WebSocket: snapshot
// reads, operator status batches, trade submission and the subscriber
// push channel.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"goldboard/internal/application/service"
	"goldboard/internal/application/usecase/board"
	"goldboard/internal/domain/model"
)

type Server struct {
	board *board.Service
	hub   *Hub
}

func New(b *board.Service, hub *Hub) *Server {
	return &Server{board: b, hub: hub}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/prices", s.handlePrices)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.Handle("/ws", s.hub)
	return mux
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.board.Prices())
}

// statusEntry uses the original wire key priceType for the instrument.
type statusEntry struct {
	PriceType string `json:"priceType"`
	Status    string `json:"status"`
}

type statusRequest struct {
	States []statusEntry `json:"states"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.board.Statuses())

	case http.MethodPost:
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.States) == 0 {
			writeError(w, http.StatusBadRequest, "states must be a non-empty array")
			return
		}

		batch := make([]service.StatusChange, 0, len(req.States))
		for _, st := range req.States {
			batch = append(batch, service.StatusChange{
				Instrument: model.Instrument(st.PriceType),
				Status:     model.Status(st.Status),
			})
		}

		statuses, err := s.board.ApplyStatuses(batch)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"statuses": statuses,
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// transactionRequest accepts the side under both its own name and the
// legacy key "state" used by older clients.
type transactionRequest struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Side   string  `json:"side"`
	State  string  `json:"state"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		writeJSON(w, http.StatusOK, s.board.Transactions(limit))

	case http.MethodPost:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		side := req.Side
		if side == "" {
			side = req.State
		}

		tx, err := s.board.SubmitTransaction(r.Context(), req.Symbol, req.Price, side)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, service.ErrInvalidSide) || errors.Is(err, service.ErrNegativePrice) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"transaction": tx,
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
