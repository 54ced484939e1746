package dto

// LoginRequest represents the admin login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"SecurePass123"`
}

// AdminDTO represents admin information in responses
type AdminDTO struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string   `json:"token"`
	Admin AdminDTO `json:"admin"`
}
