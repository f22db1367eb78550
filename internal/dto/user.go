package dto

import "time"

// ── user DTOs ──

// UserResponse is one user row in any view.
type UserResponse struct {
	ID          uint      `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateRoleRequest changes a user's role. The service uppercases and
// validates against the role enum.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,max=50"`
}
