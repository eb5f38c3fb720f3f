package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/dlp"
	"github.com/pulseid/platform/pkg/observability/metrics"
	"gorm.io/datatypes"
)

// Store is the persistence the event handler needs.
type Store interface {
	Save(ctx context.Context, rec *EventModel) error
}

type Recorder struct {
	store    Store
	redactor *dlp.Detector
}

type RecorderOption func(*Recorder)

// WithRedactor masks identifiers found in free-form metadata before it is
// stored.
func WithRedactor(d *dlp.Detector) RecorderOption {
	return func(r *Recorder) {
		r.redactor = d
	}
}

func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle stores one share event. It has the kafka.EventHandler signature.
// Unknown event types are skipped.
func (r *Recorder) Handle(ctx context.Context, event models.Event) error {
	if event.Type != models.EventProfileShared && event.Type != models.EventReportViewed {
		logger.Log.WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Debug("skipping non-audit event")
		return nil
	}
	if event.ID == "" {
		return fmt.Errorf("audit event without id")
	}

	rec := ToModel(event)
	if r.redactor != nil {
		if found := r.redactor.Detect(rec.Metadata); found.Detected {
			rec.Metadata = r.redactor.Sanitize(rec.Metadata)
			metrics.ObserveAuditRedaction()
			logger.Log.WithFields(map[string]interface{}{
				"event_id": event.ID,
				"types":    found.Types,
				"matches":  found.Matches,
			}).Warn("identifiers masked in audit metadata")
		}
	}
	if err := r.store.Save(ctx, &rec); err != nil {
		return fmt.Errorf("save audit event %s: %w", event.ID, err)
	}
	logger.Log.WithFields(map[string]interface{}{
		"event_id":   rec.ID,
		"event_type": rec.EventType,
		"share_id":   rec.ShareID,
	}).Info("audit event recorded")
	return nil
}

// ToModel maps the known data keys to columns; everything else lands in
// Metadata.
func ToModel(event models.Event) EventModel {
	rec := EventModel{
		ID:         event.ID,
		EventType:  event.Type,
		OccurredAt: event.Timestamp.UTC(),
		Metadata:   datatypes.JSONMap{},
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	if event.Source != "" {
		rec.Metadata["source"] = event.Source
	}

	for key, value := range event.Data {
		switch key {
		case "share_id":
			rec.ShareID, _ = value.(string)
		case "payload_bytes":
			rec.PayloadBytes = asInt(value)
		case "ecc_level":
			rec.ECCLevel, _ = value.(string)
		case "risk_level":
			rec.RiskLevel, _ = value.(string)
		default:
			rec.Metadata[key] = value
		}
	}
	for key, value := range event.Metadata {
		rec.Metadata[key] = value
	}
	return rec
}

// asInt accepts the float64 that encoding/json produces for numbers.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
