package db

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/models"
)

// Partial unique indexes back the "one active row per slot" invariants.
// Soft-deleted rows fall outside the predicate, so a freed slot can be
// booked again.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_slots_active_slot
		ON time_slots (doctor_id, date, time) WHERE is_deleted = false`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_slot
		ON reservations (doctor_id, year, month, date, time) WHERE is_deleted = false`,
}

func Migrate() {
	// Initialize DB connection
	Init()

	err := DB.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.TimeSlot{},
		&models.Reservation{},
		&models.Setting{},
		&models.OTPManager{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	if err := CreateUniqueIndexes(DB); err != nil {
		log.Fatal("Failed to create unique indexes: ", err)
	}

	seedAdmin()

	fmt.Println("✅ Migrations applied successfully!")
}

// CreateUniqueIndexes applies the partial unique indexes. Exposed so the
// test database can install the same constraints.
func CreateUniqueIndexes(db *gorm.DB) error {
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the first admin account from the environment when no
// admin exists yet.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Admin",
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", email)
}
