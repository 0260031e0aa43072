package models

import (
	"fmt"
	"time"
)

// Reservation is a patient booking. It carries no slot foreign key; the
// booked slot is identified by the denormalized date columns plus the
// time, which also makes reservations survive slot edits. (doctor, year,
// month, date, time) is unique among non-deleted rows via a partial index
// in db.Migrate, which is the sole guard against double booking.
type Reservation struct {
	Base
	SoftDeleteModel
	DoctorID     uint   `json:"doctor_id"`
	Doctor       Doctor `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Year         int    `json:"year"`
	Month        string `json:"month"`
	Date         int    `json:"date"`
	DayOfWeek    string `json:"day_of_week"`
	Time         string `json:"time"` // Format "HH:MM" in 24h
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	NationalCode string `json:"national_code"`
	MobileNumber string `json:"mobile_number"`
}

func (r *Reservation) String() string {
	return fmt.Sprintf("%d/%s/%d | %s | %s %s", r.Year, r.Month, r.Date, r.Time, r.FirstName, r.LastName)
}

func (r *Reservation) CascadeRules() []CascadeRule {
	return nil
}

// SetDate fills the denormalized date columns from a calendar day.
func (r *Reservation) SetDate(day time.Time) {
	r.Year = day.Year()
	r.Month = day.Month().String()
	r.Date = day.Day()
	r.DayOfWeek = day.Weekday().String()
}
