package models

import (
	"fmt"

	"gorm.io/gorm"
)

type Doctor struct {
	Base
	SoftDeleteModel
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	NationalCode string        `json:"national_code"`
	Address      string        `json:"address"`
	Field        string        `json:"field"` // specialty, e.g. "Cardiology"
	PhotoURL     string        `json:"photo_url"`
	TimeSlots    []TimeSlot    `json:"time_slots,omitempty" gorm:"foreignKey:DoctorID"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:DoctorID"`
}

func (d *Doctor) String() string {
	return fmt.Sprintf("%s:%s (%s)", d.Field, d.Name, d.Phone)
}

// CascadeRules: deleting a doctor takes their time slots and reservations
// along.
func (d *Doctor) CascadeRules() []CascadeRule {
	return []CascadeRule{
		{Fetch: func(tx *gorm.DB, doctorID uint) ([]SoftDeletable, error) {
			var slots []TimeSlot
			if err := tx.Scopes(Active).Where("doctor_id = ?", doctorID).Find(&slots).Error; err != nil {
				return nil, err
			}
			dependents := make([]SoftDeletable, len(slots))
			for i := range slots {
				dependents[i] = &slots[i]
			}
			return dependents, nil
		}},
		{Fetch: func(tx *gorm.DB, doctorID uint) ([]SoftDeletable, error) {
			var reservations []Reservation
			if err := tx.Scopes(Active).Where("doctor_id = ?", doctorID).Find(&reservations).Error; err != nil {
				return nil, err
			}
			dependents := make([]SoftDeletable, len(reservations))
			for i := range reservations {
				dependents[i] = &reservations[i]
			}
			return dependents, nil
		}},
	}
}
