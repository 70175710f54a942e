package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldwatch/internal/shift"
)

// Checkout methods. Auto methods are written by the reconciliation
// sweeper, admin_forced by the force-checkout endpoint.
const (
	MethodManual       = "manual"
	MethodAutoShiftEnd = "auto_shift_end"
	MethodAutoGeofence = "auto_geofence"
	MethodAdminForced  = "admin_forced"
)

type Session struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID    uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	GuardID           uuid.UUID      `gorm:"column:guard_id;type:uuid;not null;index"`
	Guard             *GuardRef      `gorm:"foreignKey:GuardID;references:ID"`
	ShiftID           *uuid.UUID     `gorm:"column:shift_id;type:uuid"`
	Shift             *shift.Shift   `gorm:"foreignKey:ShiftID"`
	CheckinTime       time.Time      `gorm:"column:checkin_time;type:timestamptz;not null"`
	CheckinLatitude   *float64       `gorm:"column:checkin_latitude;type:double precision"`
	CheckinLongitude  *float64       `gorm:"column:checkin_longitude;type:double precision"`
	CheckoutTime      *time.Time     `gorm:"column:checkout_time;type:timestamptz;index"`
	CheckoutLatitude  *float64       `gorm:"column:checkout_latitude;type:double precision"`
	CheckoutLongitude *float64       `gorm:"column:checkout_longitude;type:double precision"`
	CheckoutMethod    string         `gorm:"column:checkout_method;type:varchar(30)"`
	Notes             *string        `gorm:"column:notes;type:text"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Session) TableName() string {
	return "attendance_sessions"
}

func (s Session) IsOpen() bool {
	return s.CheckoutTime == nil
}

type GuardRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code     string    `gorm:"column:code"`
	FullName string    `gorm:"column:full_name"`
}

func (GuardRef) TableName() string {
	return "guards"
}
