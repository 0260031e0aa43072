package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
)

var testUniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_slots_active_slot
		ON time_slots (doctor_id, date, time) WHERE is_deleted = false`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_slot
		ON reservations (doctor_id, year, month, date, time) WHERE is_deleted = false`,
}

// setupApp wires a fresh in-memory database into the db package global
// and registers the handlers under test without the auth middleware.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{}, &models.Doctor{}, &models.TimeSlot{},
		&models.Reservation{}, &models.Setting{}, &models.OTPManager{},
	))
	for _, stmt := range testUniqueIndexes {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	db.DB = gdb

	app := fiber.New()
	app.Get("/doctors/:id/slots", GetDoctorSlots)
	app.Post("/reservations/send-otp", SendReservationOTP)
	app.Post("/reservations", CreateReservation)
	app.Delete("/admin/doctors/:id", DeleteDoctor)
	app.Post("/admin/doctors/:id/restore", RestoreDoctor)
	app.Get("/admin/reservations", AdminGetAllReservations)
	app.Delete("/admin/reservations/:id", DeleteReservation)
	app.Post("/admin/reservations/restore", BulkRestoreReservations)
	app.Get("/admin/reservations/export", ExportReservations)
	app.Get("/admin/reservations/:id", GetReservation)
	return app
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func createDoctor(t *testing.T) *models.Doctor {
	t.Helper()
	doctor := &models.Doctor{
		Name:         "Sara Karimi",
		Phone:        "09121234567",
		NationalCode: "0012345678",
		Address:      "12 Enghelab St",
		Field:        "Cardiology",
	}
	require.NoError(t, db.DB.Create(doctor).Error)
	return doctor
}

func createSlot(t *testing.T, doctorID uint, date, clock string) *models.TimeSlot {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	slot := &models.TimeSlot{DoctorID: doctorID, Date: day, Time: clock, IsActive: true}
	require.NoError(t, db.DB.Create(slot).Error)
	return slot
}

func createReservation(t *testing.T, doctorID uint, date, clock, first, last string) *models.Reservation {
	t.Helper()
	reservation := &models.Reservation{
		DoctorID: doctorID, Time: clock,
		FirstName: first, LastName: last, MobileNumber: "09351112233",
	}
	reservation.SetDate(mustParseDay(t, date))
	require.NoError(t, db.DB.Create(reservation).Error)
	return reservation
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustParseDay(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return day
}

// pendingOTP reads back the challenge code the durable backend stored.
func pendingOTP(t *testing.T, number string) string {
	t.Helper()
	var challenge models.OTPManager
	require.NoError(t, db.DB.Where("mobile_number = ?", number).First(&challenge).Error)
	return challenge.OTPCode
}
