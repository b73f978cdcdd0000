package model

// LoginRequest is the admin login payload. There is a single admin identity,
// so only the password is required.
type LoginRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}
