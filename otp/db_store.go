package otp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/models"
)

// DBStore keeps one otp_managers row per mobile number. It is the
// default backend and has no expiry.
type DBStore struct {
	DB *gorm.DB
}

func (s *DBStore) Exists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.OTPManager{}).
		Where("mobile_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (s *DBStore) Create(ctx context.Context, number, code string) error {
	return s.DB.WithContext(ctx).
		Create(&models.OTPManager{MobileNumber: number, OTPCode: code}).Error
}

func (s *DBStore) Validate(ctx context.Context, number, code string) (bool, error) {
	var challenge models.OTPManager
	err := s.DB.WithContext(ctx).Where("mobile_number = ?", number).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return challenge.OTPCode == code, nil
}

func (s *DBStore) Delete(ctx context.Context, number string) error {
	return s.DB.WithContext(ctx).Where("mobile_number = ?", number).
		Delete(&models.OTPManager{}).Error
}
