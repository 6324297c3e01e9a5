package model

// Role is the account role issued by the backend.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// User is the signed-in account as known to the client.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank,max=100"`
	Password string `json:"password" binding:"required,notblank,max=200"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=200"`
	FullName string `json:"fullName" binding:"required,notblank,max=100"`
	Role     Role   `json:"role" binding:"required,oneof=STUDENT TEACHER ADMIN"`
}

// AuthResponse is the backend's reply to login and register.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
	Message  string `json:"message,omitempty"`
}

// User extracts the account fields from the response.
func (a *AuthResponse) User() User {
	return User{
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
		Role:     a.Role,
	}
}
