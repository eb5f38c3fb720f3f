package share

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/codec"
	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/report"
	"github.com/pulseid/platform/pkg/units"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/share", h.handleShare).Methods(http.MethodPost)
	r.HandleFunc("/report", h.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/s/{code}", h.handleShortLink).Methods(http.MethodGet)
	r.HandleFunc("/assess", h.handleAssess).Methods(http.MethodPost)
	r.HandleFunc("/bmi", h.handleBMI).Methods(http.MethodPost)
	r.HandleFunc("/reports/analyze", h.handleAnalyzeReport).Methods(http.MethodPost)
}

type shareRequest struct {
	Profile models.Profile `json:"profile"`
	ShareOptions
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	link, err := h.service.Share(r.Context(), req.Profile, req.ShareOptions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := q.Get("data")
	if data == "" {
		writeError(w, http.StatusBadRequest, "missing data parameter")
		return
	}
	vitals, _ := strconv.ParseBool(q.Get("vitals"))

	rep, err := h.service.View(r.Context(), data, ViewOptions{SimulateVitals: vitals})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleShortLink(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.Resolve(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) handleAssess(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	writeJSON(w, http.StatusOK, h.service.Assess(p))
}

type bmiRequest struct {
	Height       string `json:"height"`
	HeightUnit   string `json:"heightUnit"`
	HeightFeet   string `json:"heightFeet"`
	HeightInches string `json:"heightInches"`
	Weight       string `json:"weight"`
	WeightUnit   string `json:"weightUnit"`
}

type bmiResponse struct {
	HeightMeters *float64 `json:"heightMeters"`
	WeightKg     *float64 `json:"weightKg"`
	BMI          *float64 `json:"bmi"`
	Class        string   `json:"class,omitempty"`
	Display      string   `json:"display"`
}

func (h *Handler) handleBMI(w http.ResponseWriter, r *http.Request) {
	var req bmiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if _, err := units.ParseHeightUnit(req.HeightUnit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := units.ParseWeightUnit(req.WeightUnit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := bmiResponse{Display: units.NotAvailable}
	m, okH := units.HeightToMeters(req.Height, req.HeightUnit, req.HeightFeet, req.HeightInches)
	if okH {
		resp.HeightMeters = &m
	}
	kg, okW := units.WeightToKilograms(req.Weight, req.WeightUnit)
	if okW {
		resp.WeightKg = &kg
	}
	if okH && okW {
		bmi, ok := units.BMI(m, kg)
		if ok {
			resp.BMI = &bmi
			resp.Class = string(units.ClassifyBMI(bmi))
		}
		resp.Display = units.FormatBMI(bmi, ok)
	}
	writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// handleAnalyzeReport summarises the text of an uploaded medical report.
// Text extraction from PDF or images happens on the client.
func (h *Handler) handleAnalyzeReport(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "missing report text")
		return
	}

	mr := report.ExtractMedicalReport(req.Text, h.service.now())
	mr.ID = uuid.New().String()
	mr.FileName = req.FileName
	mr.FileType = req.FileType
	writeJSON(w, http.StatusOK, mr)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case codec.IsDecodeError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, codec.ErrMissingRequiredField):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrLinkNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrShortLinksDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Log.WithError(err).Error("share request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to write json response")
	}
}
