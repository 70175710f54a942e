package guard

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldwatch/internal/shift"
)

type Guard struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	Code           string         `gorm:"column:code;type:varchar(20);not null"`
	FullName       string         `gorm:"column:full_name;type:varchar(255);not null"`
	Phone          string         `gorm:"column:phone;type:varchar(32);not null"`
	AssignedRoute  string         `gorm:"column:assigned_route;type:varchar(255)"`
	ShiftID        *uuid.UUID     `gorm:"column:shift_id;type:uuid"`
	Shift          *shift.Shift   `gorm:"foreignKey:ShiftID"`
	SiteLatitude   *float64       `gorm:"column:site_latitude;type:double precision"`
	SiteLongitude  *float64       `gorm:"column:site_longitude;type:double precision"`
	GeofenceRadius *float64       `gorm:"column:geofence_radius_m;type:double precision"`
	WeekendDays    string         `gorm:"column:weekend_days;type:varchar(20)"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Guard) TableName() string {
	return "guards"
}

// HasGeofence reports whether the guard has a complete post assignment:
// site coordinates plus a positive radius. Partial configuration counts
// as no geofence at all.
func (g Guard) HasGeofence() bool {
	return g.SiteLatitude != nil && g.SiteLongitude != nil &&
		g.GeofenceRadius != nil && *g.GeofenceRadius > 0
}
