package user

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role" binding:"required"`
	Phone    *string `json:"phone"`
	GuardID  *string `json:"guard_id"`
}

type UpdateUserRequest struct {
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	GuardID        *string `json:"guard_id,omitempty"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Phone          *string `json:"phone,omitempty"`
	IsActive       bool    `json:"is_active"`
}
