package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	OrganizationName string `json:"organization_name" binding:"required"`
	Timezone         string `json:"timezone"`
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	GuardID        string `json:"guard_id,omitempty"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
}
