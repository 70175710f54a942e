package alert

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeOffline    = "offline"
	TypeGeofence   = "geofence"
	TypeBatteryLow = "battery_low"
	TypePanic      = "panic"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type Alert struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	GuardID        uuid.UUID      `gorm:"column:guard_id;type:uuid;not null;index"`
	Guard          *GuardRef      `gorm:"foreignKey:GuardID;references:ID"`
	SessionID      *uuid.UUID     `gorm:"column:session_id;type:uuid;uniqueIndex:uq_alert_session_type"`
	Type           string         `gorm:"column:type;type:varchar(20);not null;uniqueIndex:uq_alert_session_type"`
	Severity       string         `gorm:"column:severity;type:varchar(20);not null;default:medium"`
	Message        string         `gorm:"column:message;type:text;not null"`
	IsResolved     bool           `gorm:"column:is_resolved;not null;default:false"`
	ResolvedAt     *time.Time     `gorm:"column:resolved_at;type:timestamptz"`
	ResolvedBy     *uuid.UUID     `gorm:"column:resolved_by;type:uuid"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Alert) TableName() string {
	return "alerts"
}

type GuardRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code     string    `gorm:"column:code"`
	FullName string    `gorm:"column:full_name"`
}

func (GuardRef) TableName() string {
	return "guards"
}

func validType(t string) bool {
	switch t {
	case TypeOffline, TypeGeofence, TypeBatteryLow, TypePanic:
		return true
	}
	return false
}

func validSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
