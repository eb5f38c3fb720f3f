package medication

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/common/models"
)

type Handler struct {
	now func() time.Time
}

func NewHandler(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{now: now}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/reminders/next", h.handleNext).Methods(http.MethodPost)
}

type nextRequest struct {
	Reminders []models.MedicationReminder `json:"reminders"`
}

type nextResponse struct {
	Next *Due `json:"next"`
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	var req nextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	var resp nextResponse
	if due, ok := NextDue(req.Reminders, h.now()); ok {
		resp.Next = &due
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to write json response")
	}
}
