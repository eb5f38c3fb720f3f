package share

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(svc).Register(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPShareReportAndShortLink(t *testing.T) {
	store, _ := newTestStore(t)
	router := newTestRouter(t, newTestService(t, store, &fakePublisher{}, ECCHigh))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/share", map[string]interface{}{
		"profile":    testProfile(),
		"attachRisk": true,
		"shortLink":  true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var link Link
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&link))
	require.NotEmpty(t, link.ShortCode)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/s/"+link.ShortCode, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, link.URL, rec.Header().Get("Location"))

	u, err := url.Parse(link.URL)
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/report?vitals=true&data="+url.QueryEscape(u.Query().Get("data")), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, "Raj", rep.Name)
	assert.Equal(t, models.RiskCritical, rep.Risk.Level)
	assert.NotNil(t, rep.Vitals)
}

func TestHTTPShareAcceptsLegacyListStrings(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))
	body := `{"profile":{"name":"Asha","age":"30","conditions":"Diabetes, Asthma","allergies":"None"},"attachRisk":true}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/share", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var link Link
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&link))
	require.NotNil(t, link.Risk)
	assert.Equal(t, models.RiskHigh, link.Risk.Level)
	assert.Equal(t, "E11", link.Risk.Codes["Diabetes"])
}

func TestHTTPReportFromLegacyLink(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))
	legacy := `{"name":"Asha","age":"30","gender":"Female","bloodGroup":"B+","conditions":"Diabetes","allergies":"None",` +
		`"symptoms":"","emergencyContacts":[],"doctorContacts":[],"emergencyDoctorName":"","emergencyDoctorNumber":"",` +
		`"medicalReports":[],"timestamp":"2024-05-01T10:00:00.000Z"}`

	rec := doJSON(t, router, http.MethodGet, "/api/v1/report?data="+url.QueryEscape(legacy), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, "Asha", rep.Name)
	assert.Equal(t, "Diabetes", rep.Conditions)
	assert.Equal(t, "None", rep.Allergies)
	assert.Equal(t, models.RiskHigh, rep.Risk.Level)
}

func TestHTTPAnalyzeReport(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/reports/analyze", analyzeRequest{
		Text:     "ECG\nFindings: sinus tachycardia\nHeart rate elevated at 118",
		FileName: "ecg.pdf",
		FileType: "pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var mr models.MedicalReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&mr))
	assert.NotEmpty(t, mr.ID)
	assert.Equal(t, "ECG", mr.Type)
	assert.Equal(t, "sinus tachycardia", mr.Summary)
	assert.Equal(t, "2026-06-01", mr.Date)
	assert.Equal(t, []string{"Heart rate elevated at 118"}, mr.Concerns)
	assert.Equal(t, "ecg.pdf", mr.FileName)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/reports/analyze", analyzeRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPErrors(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"share bad json", http.MethodPost, "/api/v1/share", "{", http.StatusBadRequest},
		{"report missing data", http.MethodGet, "/api/v1/report", "", http.StatusBadRequest},
		{"report undecodable", http.MethodGet, "/api/v1/report?data=garbage", "", http.StatusBadRequest},
		{"report missing fields", http.MethodGet, "/api/v1/report?data=" + url.QueryEscape(`{"n":"Raj"}`), "", http.StatusUnprocessableEntity},
		{"unknown short code", http.MethodGet, "/api/v1/s/abcdefgh", "", http.StatusNotFound},
		{"short link disabled", http.MethodPost, "/api/v1/share", `{"profile":{"name":"a","age":"1"},"shortLink":true}`, http.StatusServiceUnavailable},
		{"bmi bad unit", http.MethodPost, "/api/v1/bmi", `{"height":"180","heightUnit":"m","weight":"70","weightUnit":"kg"}`, http.StatusBadRequest},
		{"assess bad list", http.MethodPost, "/api/v1/assess", `{"conditions":{"a":1}}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHTTPAssess(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))
	rec := doJSON(t, router, http.MethodPost, "/api/v1/assess", models.Profile{
		Allergies: models.ClinicalList{"Penicillin"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var ra models.RiskAssessment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ra))
	assert.Equal(t, models.RiskModerate, ra.Level)
	assert.Contains(t, ra.Guidelines, "Avoid Penicillin")
}

func TestHTTPBMI(t *testing.T) {
	router := newTestRouter(t, newTestService(t, nil, nil, ECCHigh))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bmi", bmiRequest{
		Height: "180", HeightUnit: "cm", Weight: "70", WeightUnit: "kg",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp bmiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.BMI)
	assert.InDelta(t, 21.6, *resp.BMI, 0.05)
	assert.Equal(t, "Normal", resp.Class)
	assert.Equal(t, "21.6 (Normal)", resp.Display)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/bmi", bmiRequest{
		Height: "0", HeightUnit: "cm", Weight: "70", WeightUnit: "kg",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = bmiResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.BMI)
	assert.Nil(t, resp.HeightMeters)
	assert.Equal(t, "Not available", resp.Display)
}
