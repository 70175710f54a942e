package guard

type GeofenceRequest struct {
	SiteLatitude  float64 `json:"site_latitude" binding:"required_with=SiteLongitude"`
	SiteLongitude float64 `json:"site_longitude" binding:"required_with=SiteLatitude"`
	RadiusMeters  float64 `json:"radius_meters" binding:"required,gt=0"`
}

type CreateGuardRequest struct {
	FullName      string           `json:"full_name" binding:"required"`
	Phone         string           `json:"phone" binding:"required"`
	Code          string           `json:"code"`
	AssignedRoute string           `json:"assigned_route"`
	ShiftID       string           `json:"shift_id"`
	Geofence      *GeofenceRequest `json:"geofence"`
	WeekendDays   string           `json:"weekend_days"`
}

type UpdateGuardRequest struct {
	FullName      string           `json:"full_name" binding:"required"`
	Phone         string           `json:"phone" binding:"required"`
	AssignedRoute string           `json:"assigned_route"`
	ShiftID       string           `json:"shift_id"`
	Geofence      *GeofenceRequest `json:"geofence"`
	WeekendDays   string           `json:"weekend_days"`
	IsActive      *bool            `json:"is_active"`
}

type GeofenceResponse struct {
	SiteLatitude  float64 `json:"site_latitude"`
	SiteLongitude float64 `json:"site_longitude"`
	RadiusMeters  float64 `json:"radius_meters"`
}

type GuardShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type GuardResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	Code           string              `json:"code"`
	FullName       string              `json:"full_name"`
	Phone          string              `json:"phone"`
	AssignedRoute  string              `json:"assigned_route,omitempty"`
	ShiftID        string              `json:"shift_id,omitempty"`
	Shift          *GuardShiftResponse `json:"shift,omitempty"`
	Geofence       *GeofenceResponse   `json:"geofence,omitempty"`
	WeekendDays    string              `json:"weekend_days,omitempty"`
	IsActive       bool                `json:"is_active"`
}
