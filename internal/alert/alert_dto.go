package alert

type CreateAlertRequest struct {
	GuardID  string `json:"guard_id" binding:"required,uuid"`
	Type     string `json:"type" binding:"required"`
	Severity string `json:"severity"`
	Message  string `json:"message" binding:"required"`
}

type AlertResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	GuardID        string `json:"guard_id"`
	GuardCode      string `json:"guard_code,omitempty"`
	GuardName      string `json:"guard_name,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	IsResolved     bool   `json:"is_resolved"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}
