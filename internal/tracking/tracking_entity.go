package tracking

import (
	"time"

	"github.com/google/uuid"
)

type LocationLog struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	GuardID        uuid.UUID `gorm:"column:guard_id;type:uuid;not null;index:idx_location_logs_guard_recorded,priority:1"`
	Latitude       float64   `gorm:"column:latitude;type:double precision;not null"`
	Longitude      float64   `gorm:"column:longitude;type:double precision;not null"`
	AccuracyMeters *float64  `gorm:"column:accuracy_m;type:double precision"`
	BatteryPercent *int      `gorm:"column:battery_percent"`
	RecordedAt     time.Time `gorm:"column:recorded_at;not null;index:idx_location_logs_guard_recorded,priority:2,sort:desc"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (LocationLog) TableName() string {
	return "location_logs"
}
