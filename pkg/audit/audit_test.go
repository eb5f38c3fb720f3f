package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/dlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockRepo(t *testing.T) (sqlmock.Sqlmock, *Repository) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return mock, NewRepository(db)
}

func TestRepositorySave(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "audit_events"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := ToModel(models.Event{
		ID:   "evt-1",
		Type: models.EventProfileShared,
		Data: map[string]interface{}{"share_id": "s-1", "payload_bytes": float64(412)},
	})
	require.NoError(t, repo.Save(context.Background(), &rec))
	assert.False(t, rec.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRecent(t *testing.T) {
	mock, repo := setupMockRepo(t)
	created := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "share_id", "payload_bytes", "ecc_level", "risk_level", "metadata", "occurred_at", "created_at",
	}).
		AddRow("evt-2", models.EventReportViewed, "", 300, "", "HIGH", `{"schema_version":1}`, created, created).
		AddRow("evt-1", models.EventProfileShared, "s-1", 412, "H", "HIGH", `{}`, created, created)

	mock.ExpectQuery(`SELECT \* FROM "audit_events" ORDER BY created_at DESC LIMIT`).
		WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "evt-2", got[0].ID)
	assert.Equal(t, float64(1), got[0].Metadata["schema_version"])
	assert.Equal(t, "H", got[1].ECCLevel)
	require.NoError(t, mock.ExpectationsWereMet())
}

type memoryStore struct {
	saved []EventModel
	err   error
}

func (m *memoryStore) Save(_ context.Context, rec *EventModel) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *rec)
	return nil
}

func (m *memoryStore) Recent(_ context.Context, limit int) ([]EventModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.saved) || limit == 0 {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func TestRecorderHandle(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store)
	at := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	err := rec.Handle(context.Background(), models.Event{
		ID:        "evt-1",
		Type:      models.EventProfileShared,
		Source:    "pulseid-service",
		Timestamp: at,
		Data: map[string]interface{}{
			"share_id":      "s-1",
			"payload_bytes": float64(412),
			"url_bytes":     float64(450),
			"ecc_level":     "H",
			"risk_level":    "CRITICAL",
			"short_link":    true,
		},
		Metadata: map[string]string{"request_id": "r-1"},
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	got := store.saved[0]
	assert.Equal(t, "s-1", got.ShareID)
	assert.Equal(t, 412, got.PayloadBytes)
	assert.Equal(t, "H", got.ECCLevel)
	assert.Equal(t, "CRITICAL", got.RiskLevel)
	assert.Equal(t, at, got.OccurredAt)
	assert.Equal(t, float64(450), got.Metadata["url_bytes"])
	assert.Equal(t, true, got.Metadata["short_link"])
	assert.Equal(t, "pulseid-service", got.Metadata["source"])
	assert.Equal(t, "r-1", got.Metadata["request_id"])
}

func TestRecorderRedactsMetadata(t *testing.T) {
	detector, err := dlp.NewDetector(dlp.DefaultRules())
	require.NoError(t, err)

	store := &memoryStore{}
	rec := NewRecorder(store, WithRedactor(detector))

	require.NoError(t, rec.Handle(context.Background(), models.Event{
		ID:   "evt-9",
		Type: models.EventReportViewed,
		Data: map[string]interface{}{
			"risk_level": "HIGH",
			"referer":    "https://pulse.example/report?data=j.eyJ2IjoxfQ",
			"note":       "call 555-0100-22",
		},
	}))
	require.Len(t, store.saved, 1)

	got := store.saved[0]
	assert.Equal(t, "HIGH", got.RiskLevel)
	assert.Equal(t, "https://pulse.example/report?data=***", got.Metadata["referer"])
	assert.Equal(t, "call (***) ***-****", got.Metadata["note"])
}

func TestRecorderSkipsAndFails(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store)

	require.NoError(t, rec.Handle(context.Background(), models.Event{ID: "x", Type: "ingest"}))
	assert.Empty(t, store.saved)

	assert.Error(t, rec.Handle(context.Background(), models.Event{Type: models.EventReportViewed}))

	store.err = errors.New("db down")
	err := rec.Handle(context.Background(), models.Event{ID: "y", Type: models.EventReportViewed})
	assert.ErrorIs(t, err, store.err)
}

func TestRecentEndpoint(t *testing.T) {
	store := &memoryStore{saved: []EventModel{
		{ID: "b", EventType: models.EventReportViewed},
		{ID: "a", EventType: models.EventProfileShared},
	}}
	router := mux.NewRouter()
	NewHTTPHandler(store).Register(router.PathPrefix("/api/v1").Subrouter())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/recent?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []EventModel `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "b", body.Items[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit/recent?limit=abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	store.err = errors.New("db down")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit/recent", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
