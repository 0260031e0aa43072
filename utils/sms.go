package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/models"
)

var smsClient = &http.Client{Timeout: 10 * time.Second}

// patternSMS is the pattern-send payload of the SMS panel.
type patternSMS struct {
	Code      string            `json:"code"`
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	Variable  map[string]string `json:"variable"`
}

// SendPatternSMS posts one pattern message to the gateway. Delivery is
// best effort: callers log the returned error and never roll back the
// write that triggered the message. The gateway is disabled unless the
// activate_gateway setting is true.
func SendPatternSMS(db *gorm.DB, recipient, patternCode string, variables map[string]string) error {
	if !models.GetBoolSetting(db, models.SettingActivateGateway, false) {
		return nil
	}

	apiKey := models.GetSetting(db, models.SettingGatewayToken, os.Getenv("SMS_API_KEY"))
	gatewayURL := os.Getenv("SMS_GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = "https://api2.ippanel.com/api/v1/sms/pattern/normal/send"
	}

	payload, err := json.Marshal(patternSMS{
		Code:      patternCode,
		Sender:    os.Getenv("SMS_SENDER"),
		Recipient: recipient,
		Variable:  variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)

	resp, err := smsClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPSMS delivers a verification code.
func SendOTPSMS(db *gorm.DB, mobileNumber, code string) error {
	return SendPatternSMS(db, mobileNumber, os.Getenv("SMS_OTP_PATTERN"), map[string]string{
		"OTP": code,
	})
}

// SendReservationSMS delivers the booking confirmation.
func SendReservationSMS(db *gorm.DB, reservation *models.Reservation, doctor *models.Doctor) error {
	return SendPatternSMS(db, reservation.MobileNumber, os.Getenv("SMS_RESERVE_PATTERN"), map[string]string{
		"full_name":   fmt.Sprintf("%s %s", reservation.FirstName, reservation.LastName),
		"doctor_name": fmt.Sprintf("%s(%s)", doctor.Name, doctor.Field),
		"time":        reservation.Time,
		"date": fmt.Sprintf("%s %d/%s/%d",
			reservation.DayOfWeek, reservation.Year, reservation.Month, reservation.Date),
	})
}
