package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"battleship-bot/storage"
)

// Handler serves read-only views of recorded games.
type Handler struct {
	Store storage.GameStore // nil serves empty results
}

// NewHandler creates a new API handler with the given store.
func NewHandler(store storage.GameStore) *Handler {
	return &Handler{Store: store}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/games", h.Games)
	mux.HandleFunc("/api/stats", h.Stats)
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// Games returns recent games, newest first. Query: limit (default 20), offset.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	list := []storage.GameRecord{}
	if h.Store != nil {
		games, err := h.Store.ListGames(r.Context(), limit, offset)
		if err != nil {
			slog.Error("list games", "tag", "api", "error", err)
			http.Error(w, "failed to load games", http.StatusInternalServerError)
			return
		}
		if games != nil {
			list = games
		}
	}
	writeJSON(w, list)
}

// Stats returns win/loss/tie totals.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := &storage.Stats{}
	if h.Store != nil {
		var err error
		stats, err = h.Store.GetStats(r.Context())
		if err != nil {
			slog.Error("get stats", "tag", "api", "error", err)
			http.Error(w, "failed to load stats", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "tag", "api", "error", err)
	}
}
