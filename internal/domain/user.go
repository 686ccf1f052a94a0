package domain

import (
	"strings"
	"time"
)

// NextVerifyOTP is the client hint returned by register, login and resend:
// none of those operations complete the flow, the OTP round-trip does.
const NextVerifyOTP = "Verify_OTP"

// User is the credential record, exactly one per e-mail address. Email is
// stored lowercased and doubles as the table's partition key.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool      `json:"is_verified" dynamodbav:"is_verified"`
	OTPCode      string    `json:"-" dynamodbav:"otp_code"`
	OTPExpiresAt int64     `json:"-" dynamodbav:"otp_expires_at"` // Unix seconds; 0 = no outstanding challenge
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// HasOTP reports whether an OTP challenge is currently outstanding.
func (u *User) HasOTP() bool {
	return u.OTPCode != ""
}

// UserIdentity is the minimal identity returned after a successful OTP
// verification. It is the only authenticated output of the API.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeEmail canonicalizes an e-mail for lookup and storage.
// Comparison is case-insensitive, so records are keyed on the lowercased form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
