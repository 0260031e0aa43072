package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
)

var mobileNumberPattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func GenerateOTP() string {
	// Generate a 5-digit OTP
	var buf [4]byte
	rand.Read(buf[:])
	return fmt.Sprintf("%05d", binary.BigEndian.Uint32(buf[:])%100000)
}

// IsValidMobileNumber checks the stored mobile number format.
func IsValidMobileNumber(number string) bool {
	return mobileNumberPattern.MatchString(number)
}

// IsValidClockTime checks the "HH:MM" 24h format used by slots and
// reservations.
func IsValidClockTime(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	for _, c := range []byte{value[0], value[1], value[3], value[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	hour := (int(value[0]-'0') * 10) + int(value[1]-'0')
	minute := (int(value[3]-'0') * 10) + int(value[4]-'0')
	return hour < 24 && minute < 60
}
