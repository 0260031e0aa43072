package models

// OTPManager is the durable fallback for OTP challenges when the redis
// backend is switched off. Rows have no TTL; a code lives until it is
// consumed by a successful verification.
type OTPManager struct {
	Base
	MobileNumber string `json:"mobile_number" gorm:"size:15;uniqueIndex"`
	OTPCode      string `json:"otp_code" gorm:"size:15"`
}
