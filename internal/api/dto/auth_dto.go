package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role"`
}

// LoginResponse returned on successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    map[string]any `json:"user"`
}

// SignupResponse returned on successful signup.
type SignupResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}
