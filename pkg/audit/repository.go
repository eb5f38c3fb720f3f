// Package audit records share and view events for the audit trail. Rows
// hold share metadata only; profile contents never reach this store.
package audit

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500
)

type EventModel struct {
	ID           string            `gorm:"primaryKey;column:id" json:"id"`
	EventType    string            `gorm:"column:event_type;index" json:"eventType"`
	ShareID      string            `gorm:"column:share_id;index" json:"shareId,omitempty"`
	PayloadBytes int               `gorm:"column:payload_bytes" json:"payloadBytes"`
	ECCLevel     string            `gorm:"column:ecc_level" json:"eccLevel,omitempty"`
	RiskLevel    string            `gorm:"column:risk_level" json:"riskLevel,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	OccurredAt   time.Time         `gorm:"column:occurred_at" json:"occurredAt"`
	CreatedAt    time.Time         `gorm:"column:created_at;index" json:"createdAt"`
}

func (EventModel) TableName() string {
	return "audit_events"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&EventModel{})
}

func (r *Repository) Save(ctx context.Context, rec *EventModel) error {
	rec.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(rec).Error
}

// Recent returns the newest events first. limit is clamped to
// [1, MaxRecentLimit]; zero selects DefaultRecentLimit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]EventModel, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	var rows []EventModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
