package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
)

func TestBookingFlow(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)
	createSlot(t, doctor.ID, "2026-09-07", "10:00")

	// Request a code; with no use_redis_cache setting it lands in the
	// durable table.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reservations/send-otp",
		map[string]string{"mobile_number": "09351112233"}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := pendingOTP(t, "09351112233")

	// Re-requesting while pending leaves the stored code untouched.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/reservations/send-otp",
		map[string]string{"mobile_number": "09351112233"}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, code, pendingOTP(t, "09351112233"))

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/reservations", map[string]interface{}{
		"doctor_id":     doctor.ID,
		"date":          "2026-09-07",
		"time":          "10:00",
		"first_name":    "Ali",
		"last_name":     "Ahmadi",
		"national_code": "0098765432",
		"mobile_number": "09351112233",
		"otp":           code,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Reservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "September", created.Month)
	require.Equal(t, "Monday", created.DayOfWeek)
	require.Equal(t, 2026, created.Year)

	// The challenge is single use.
	var count int64
	db.DB.Model(&models.OTPManager{}).Where("mobile_number = ?", "09351112233").Count(&count)
	require.Zero(t, count)
}

func TestBookingWrongOTPKeepsChallenge(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)
	createSlot(t, doctor.ID, "2026-09-07", "10:00")

	require.NoError(t, db.DB.Create(&models.OTPManager{
		MobileNumber: "09351112233", OTPCode: "12345",
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reservations", map[string]interface{}{
		"doctor_id":     doctor.ID,
		"date":          "2026-09-07",
		"time":          "10:00",
		"first_name":    "Ali",
		"last_name":     "Ahmadi",
		"mobile_number": "09351112233",
		"otp":           "00000",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Equal(t, "12345", pendingOTP(t, "09351112233"))
	var count int64
	db.DB.Model(&models.Reservation{}).Count(&count)
	require.Zero(t, count)
}

func TestBookingConflict(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)
	createSlot(t, doctor.ID, "2026-09-07", "10:00")

	book := func(number, code string) *http.Response {
		require.NoError(t, db.DB.Create(&models.OTPManager{
			MobileNumber: number, OTPCode: code,
		}).Error)
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reservations", map[string]interface{}{
			"doctor_id":     doctor.ID,
			"date":          "2026-09-07",
			"time":          "10:00",
			"first_name":    "Ali",
			"last_name":     "Ahmadi",
			"mobile_number": number,
			"otp":           code,
		}), -1)
		require.NoError(t, err)
		return resp
	}

	require.Equal(t, http.StatusCreated, book("09351112233", "12345").StatusCode)

	// Second booking for the same slot loses with a conflict, not a
	// server error.
	resp := book("09354445566", "54321")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body["errors"], "time")
}

func TestBookingUnknownSlot(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)

	require.NoError(t, db.DB.Create(&models.OTPManager{
		MobileNumber: "09351112233", OTPCode: "12345",
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/reservations", map[string]interface{}{
		"doctor_id":     doctor.ID,
		"date":          "2026-09-07",
		"time":          "10:00",
		"first_name":    "Ali",
		"last_name":     "Ahmadi",
		"mobile_number": "09351112233",
		"otp":           "12345",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBulkRestoreEndpoint(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)

	var ids []uint
	for _, clock := range []string{"10:00", "11:00"} {
		createSlot(t, doctor.ID, "2026-09-07", clock)
		reservation := &models.Reservation{
			DoctorID: doctor.ID, Time: clock,
			FirstName: "Ali", LastName: "Ahmadi", MobileNumber: "09351112233",
		}
		reservation.SetDate(mustParseDay(t, "2026-09-07"))
		require.NoError(t, db.DB.Create(reservation).Error)
		require.NoError(t, models.SoftDelete(db.DB, reservation))
		ids = append(ids, reservation.ID)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/admin/reservations/restore",
		map[string]interface{}{"ids": ids}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var active int64
	db.DB.Model(&models.Reservation{}).Where("is_deleted = ?", false).Count(&active)
	require.EqualValues(t, 2, active)
}

type reservationListPage struct {
	Reservations []models.Reservation `json:"reservations"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Pages        int                  `json:"pages"`
}

func listReservations(t *testing.T, app *fiber.App, target string) reservationListPage {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page reservationListPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	return page
}

func TestAdminListReservations(t *testing.T) {
	app := setupApp(t)
	cardiologist := createDoctor(t)
	dermatologist := &models.Doctor{
		Name: "Reza Moradi", Phone: "09127654321",
		NationalCode: "0087654321", Address: "4 Azadi Ave", Field: "Dermatology",
	}
	require.NoError(t, db.DB.Create(dermatologist).Error)

	createReservation(t, cardiologist.ID, "2026-09-07", "10:00", "Ali", "Ahmadi")
	createReservation(t, cardiologist.ID, "2026-09-07", "11:00", "Maryam", "Hosseini")
	canceled := createReservation(t, dermatologist.ID, "2026-09-07", "10:00", "Niloofar", "Rahimi")
	require.NoError(t, models.SoftDelete(db.DB, canceled))

	// Default listing hides the soft-deleted row and reports the envelope.
	page := listReservations(t, app, "/admin/reservations")
	require.EqualValues(t, 2, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 1, page.Pages)
	require.Len(t, page.Reservations, 2)

	// include_deleted widens the listing to the canceled booking.
	page = listReservations(t, app, "/admin/reservations?include_deleted=true")
	require.EqualValues(t, 3, page.Total)
	ids := make([]uint, 0, len(page.Reservations))
	for _, r := range page.Reservations {
		ids = append(ids, r.ID)
	}
	require.Contains(t, ids, canceled.ID)

	page = listReservations(t, app, "/admin/reservations?doctor_id="+itoa(cardiologist.ID))
	require.EqualValues(t, 2, page.Total)
	for _, r := range page.Reservations {
		require.Equal(t, cardiologist.ID, r.DoctorID)
	}

	// Search reaches across the joined doctor columns.
	page = listReservations(t, app, "/admin/reservations?search=Cardiology")
	require.EqualValues(t, 2, page.Total)
	page = listReservations(t, app, "/admin/reservations?search=Maryam")
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "Hosseini", page.Reservations[0].LastName)

	page = listReservations(t, app, "/admin/reservations?page=2&limit=1")
	require.EqualValues(t, 2, page.Total)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 1, page.Limit)
	require.Equal(t, 2, page.Pages)
	require.Len(t, page.Reservations, 1)
}

func TestBulkRestoreIntoTakenSlot(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)

	canceled := createReservation(t, doctor.ID, "2026-09-07", "10:00", "Ali", "Ahmadi")
	require.NoError(t, models.SoftDelete(db.DB, canceled))
	// Someone else booked the freed slot in the meantime.
	createReservation(t, doctor.ID, "2026-09-07", "10:00", "Maryam", "Hosseini")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/admin/reservations/restore",
		map[string]interface{}{"ids": []uint{canceled.ID}}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body["errors"], "ids")

	// The losing booking stays hidden.
	var stillDeleted models.Reservation
	require.NoError(t, db.DB.First(&stillDeleted, canceled.ID).Error)
	require.True(t, stillDeleted.IsDeleted)
}

func TestGetReservationIncludeDeleted(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)
	reservation := createReservation(t, doctor.ID, "2026-09-07", "10:00", "Ali", "Ahmadi")
	require.NoError(t, models.SoftDelete(db.DB, reservation))

	target := "/admin/reservations/" + itoa(reservation.ID)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, target+"?include_deleted=true", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found models.Reservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	require.Equal(t, reservation.ID, found.ID)
	require.True(t, found.IsDeleted)
}

func TestExportReservations(t *testing.T) {
	app := setupApp(t)
	doctor := createDoctor(t)
	reservation := &models.Reservation{
		DoctorID: doctor.ID, Time: "10:00",
		FirstName: "Ali", LastName: "Ahmadi", MobileNumber: "09351112233",
	}
	reservation.SetDate(mustParseDay(t, "2026-09-07"))
	require.NoError(t, db.DB.Create(reservation).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reservations/export", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
}
