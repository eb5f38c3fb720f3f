package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/common/logger"
)

type recentLister interface {
	Recent(ctx context.Context, limit int) ([]EventModel, error)
}

type HTTPHandler struct {
	repo recentLister
}

func NewHTTPHandler(repo recentLister) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/audit/recent", h.handleRecent).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	rows, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load audit events")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch audit events"})
		return
	}
	if rows == nil {
		rows = []EventModel{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
