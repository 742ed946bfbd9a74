package models

import "time"

// OTPAction is the kind of flow an OTP session belongs to.
type OTPAction string

const (
	OTPActionLogin    OTPAction = "login"
	OTPActionRegister OTPAction = "register"
)

// OTPSession represents one OTP-gated login or registration attempt.
// Sessions are never deleted in-band; expiry is logical and checked at
// verification time, not enforced by a timer.
type OTPSession struct {
	SessionID            string    `json:"session_id" gorm:"primaryKey;size:36"`
	MobileNumber         string    `json:"mobile_number" gorm:"size:15;not null;index"`
	Email                string    `json:"email" gorm:"size:255"`
	OTPCode              string    `json:"-" gorm:"size:6;not null"`
	CreatedAt            time.Time `json:"created_at"`
	ExpiresAt            time.Time `json:"expires_at" gorm:"not null"`
	Verified             bool      `json:"verified" gorm:"default:false"`
	VerificationAttempts int       `json:"verification_attempts" gorm:"default:0"`
	ActionType           OTPAction `json:"action_type" gorm:"size:16;not null"`
}

// DeliveryReceipt reports per-channel OTP dispatch success. A failed
// channel never aborts the issuing operation; the flags are simply
// returned to the caller.
type DeliveryReceipt struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}
