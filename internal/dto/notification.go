package dto

import "time"

// ── push notification DTOs ──

// SaveFCMTokenRequest registers or refreshes a device token.
type SaveFCMTokenRequest struct {
	Token      string `json:"token"       binding:"required,max=512"`
	DeviceType string `json:"device_type" binding:"omitempty,oneof=android ios web"`
}

// FCMTokenResponse is one registered device token.
type FCMTokenResponse struct {
	ID         uint      `json:"id"`
	Token      string    `json:"token"`
	DeviceType string    `json:"device_type"`
	CreatedAt  time.Time `json:"created_at"`
}
