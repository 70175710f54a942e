package attendance

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ShiftID   string   `json:"shift_id"`
	Notes     *string  `json:"notes"`
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

type ForceCheckOutRequest struct {
	Notes *string `json:"notes"`
}

type SessionShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SessionResponse struct {
	ID                string                `json:"id"`
	OrganizationID    string                `json:"organization_id"`
	GuardID           string                `json:"guard_id"`
	GuardCode         string                `json:"guard_code,omitempty"`
	GuardName         string                `json:"guard_name,omitempty"`
	Shift             *SessionShiftResponse `json:"shift,omitempty"`
	CheckinTime       string                `json:"checkin_time"`
	CheckinLatitude   *float64              `json:"checkin_latitude,omitempty"`
	CheckinLongitude  *float64              `json:"checkin_longitude,omitempty"`
	CheckoutTime      *string               `json:"checkout_time,omitempty"`
	CheckoutLatitude  *float64              `json:"checkout_latitude,omitempty"`
	CheckoutLongitude *float64              `json:"checkout_longitude,omitempty"`
	CheckoutMethod    string                `json:"checkout_method,omitempty"`
	Notes             *string               `json:"notes,omitempty"`
}
