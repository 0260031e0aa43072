package models

import (
	"time"
)

// TimeSlot is a doctor-published unit of bookable time. IsActive lets the
// clinic take a slot off the public listing without deleting it.
// (doctor, date, time) is unique among non-deleted rows; the partial
// index lives in db.Migrate.
type TimeSlot struct {
	Base
	SoftDeleteModel
	DoctorID uint      `json:"doctor_id"`
	Doctor   Doctor    `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Date     time.Time `json:"date" gorm:"type:date"`
	Time     string    `json:"time"` // Format "HH:MM" in 24h
	IsActive bool      `json:"is_active" gorm:"default:true"`
}

func (s *TimeSlot) CascadeRules() []CascadeRule {
	return nil
}
