package domain

// LoginCredentials is the login form payload.
type LoginCredentials struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// RegisterCredentials is the registration form payload.
type RegisterCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}
