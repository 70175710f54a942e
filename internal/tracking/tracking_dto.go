package tracking

type IngestLocationRequest struct {
	Latitude       float64  `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude      float64  `json:"longitude" binding:"required,min=-180,max=180"`
	AccuracyMeters *float64 `json:"accuracy_m"`
	BatteryPercent *int     `json:"battery_percent" binding:"omitempty,min=0,max=100"`
	RecordedAt     string   `json:"recorded_at"`
}

type LocationResponse struct {
	ID             string   `json:"id"`
	GuardID        string   `json:"guard_id"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_m,omitempty"`
	BatteryPercent *int     `json:"battery_percent,omitempty"`
	RecordedAt     string   `json:"recorded_at"`
}
