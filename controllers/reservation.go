package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/otp"
	"github.com/salamatlab/clinic-booking/utils"
)

// SendReservationOTP godoc
// @Summary Send a verification code for booking
// @Description Creates an OTP challenge for the mobile number unless one is already pending
// @Tags reservations
// @Accept json
// @Produce json
// @Success 200 {object} fiber.Map
// @Failure 400 {object} utils.ErrorResponse
// @Router /reservations/send-otp [post]
func SendReservationOTP(c *fiber.Ctx) error {
	type sendOTPInput struct {
		MobileNumber string `json:"mobile_number"`
	}

	input := sendOTPInput{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if !utils.IsValidMobileNumber(input.MobileNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string]string{"mobile_number": "Invalid mobile number format."},
		})
	}

	store := otp.StoreFor(db.DB)
	code := utils.GenerateOTP()
	created, err := otp.NewChallenge(c.Context(), store, input.MobileNumber, code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create verification code",
			Error:   err.Error(),
		})
	}

	// A pending challenge means the code was already sent; don't send a
	// duplicate.
	if created {
		go func(number, code string) {
			if err := utils.SendOTPSMS(db.DB, number, code); err != nil {
				log.Printf("Failed to send OTP SMS to %s: %v", number, err)
			}
		}(input.MobileNumber, code)
	}

	return c.JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

type reservationInput struct {
	DoctorID     uint   `json:"doctor_id"`
	Date         string `json:"date"` // Format "2006-01-02"
	Time         string `json:"time"` // Format "HH:MM" in 24h
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	NationalCode string `json:"national_code"`
	MobileNumber string `json:"mobile_number"`
	OTP          string `json:"otp"`
}

func (in *reservationInput) validate() map[string]string {
	problems := map[string]string{}
	if in.DoctorID == 0 {
		problems["doctor_id"] = "This field is required."
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		problems["date"] = "Invalid date, expected YYYY-MM-DD."
	}
	if !utils.IsValidClockTime(in.Time) {
		problems["time"] = "Invalid time, expected HH:MM."
	}
	if in.FirstName == "" {
		problems["first_name"] = "This field is required."
	}
	if in.LastName == "" {
		problems["last_name"] = "This field is required."
	}
	if !utils.IsValidMobileNumber(in.MobileNumber) {
		problems["mobile_number"] = "Invalid mobile number format."
	}
	if in.OTP == "" {
		problems["otp"] = "This field is required."
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// CreateReservation godoc
// @Summary Book a slot
// @Description Books a published slot after OTP verification; one active booking per slot
// @Tags reservations
// @Accept json
// @Produce json
// @Success 201 {object} models.Reservation
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /reservations [post]
func CreateReservation(c *fiber.Ctx) error {
	input := reservationInput{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if problems := input.validate(); problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": problems,
		})
	}

	store := otp.StoreFor(db.DB)
	if err := otp.Verify(c.Context(), store, input.MobileNumber, input.OTP); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": map[string]string{"otp": "Invalid OTP code, please try again."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to verify code",
			Error:   err.Error(),
		})
	}

	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, input.DoctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	day, _ := time.Parse("2006-01-02", input.Date)

	// The booked slot must be published and open.
	var slot models.TimeSlot
	if err := db.DB.Scopes(models.Active).
		Where("doctor_id = ? AND date = ? AND time = ? AND is_active = ?",
			doctor.ID, day, input.Time, true).
		First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
			Error:   err.Error(),
		})
	}

	reservation := models.Reservation{
		DoctorID:     doctor.ID,
		Time:         input.Time,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		NationalCode: input.NationalCode,
		MobileNumber: input.MobileNumber,
	}
	reservation.SetDate(day)

	// The partial unique index is the only guard against a concurrent
	// double booking; the loser of the race lands here with a conflict.
	if err := db.DB.Create(&reservation).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"time": "This slot is already reserved."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create reservation",
			Error:   err.Error(),
		})
	}

	go func(reservation models.Reservation, doctor models.Doctor) {
		if err := utils.SendReservationSMS(db.DB, &reservation, &doctor); err != nil {
			log.Printf("Failed to send confirmation SMS for reservation %d: %v", reservation.ID, err)
		}
	}(reservation, doctor)

	return c.Status(fiber.StatusCreated).JSON(reservation)
}

func reservationAdminQuery(c *fiber.Ctx) *gorm.DB {
	query := db.DB.Model(&models.Reservation{}).
		Joins("JOIN doctors ON doctors.id = reservations.doctor_id")
	if c.Query("include_deleted") != "true" {
		query = query.Where("reservations.is_deleted = ?", false)
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		query = query.Where("reservations.doctor_id = ?", doctorID)
	}
	if dayOfWeek := c.Query("day_of_week"); dayOfWeek != "" {
		query = query.Where("reservations.day_of_week = ?", dayOfWeek)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			`reservations.first_name LIKE ? OR reservations.last_name LIKE ?
				OR reservations.mobile_number LIKE ? OR reservations.day_of_week LIKE ?
				OR reservations.month LIKE ? OR doctors.name LIKE ? OR doctors.field LIKE ?`,
			like, like, like, like, like, like, like,
		)
	}
	return query
}

// AdminGetAllReservations lists reservations for staff with search,
// doctor/day filters and optional deleted rows.
func AdminGetAllReservations(c *fiber.Ctx) error {
	paginate, page, limit := utils.Paginate(c)

	query := reservationAdminQuery(c)

	var count int64
	query.Count(&count)

	var reservations []models.Reservation
	if err := query.Preload("Doctor").Scopes(paginate).
		Order("reservations.created_at DESC").
		Find(&reservations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reservations",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reservations": reservations,
		"total":        count,
		"page":         page,
		"limit":        limit,
		"pages":        utils.PageCount(count, limit),
	})
}

// GetReservation returns one reservation (admin only). Like the listing,
// include_deleted=true widens the lookup to soft-deleted rows.
func GetReservation(c *fiber.Ctx) error {
	query := db.DB
	if c.Query("include_deleted") != "true" {
		query = query.Scopes(models.Active)
	}

	var reservation models.Reservation
	if err := query.Preload("Doctor").
		First(&reservation, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Reservation not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(reservation)
}

// DeleteReservation soft-deletes one booking, freeing the slot.
func DeleteReservation(c *fiber.Ctx) error {
	var reservation models.Reservation
	if err := db.DB.Scopes(models.Active).First(&reservation, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Reservation not found",
			Error:   err.Error(),
		})
	}

	if err := models.SoftDelete(db.DB, &reservation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete reservation",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RestoreReservation revives one booking.
func RestoreReservation(c *fiber.Ctx) error {
	var reservation models.Reservation
	if err := db.DB.First(&reservation, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Reservation not found",
			Error:   err.Error(),
		})
	}

	if err := models.Restore(db.DB, &reservation); err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"time": "This slot is already reserved."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to restore reservation",
			Error:   err.Error(),
		})
	}
	return c.JSON(reservation)
}

// BulkRestoreReservations revives many bookings in one update.
func BulkRestoreReservations(c *fiber.Ctx) error {
	type bulkRestoreInput struct {
		IDs []uint `json:"ids"`
	}

	input := bulkRestoreInput{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if len(input.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string]string{"ids": "This field is required."},
		})
	}

	if err := models.BulkRestore(db.DB, &models.Reservation{}, input.IDs); err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"ids": "An active reservation already occupies one of these slots."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to restore reservations",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Reservations restored",
	})
}

// ExportReservations streams the filtered reservations as a spreadsheet.
func ExportReservations(c *fiber.Ctx) error {
	var reservations []models.Reservation
	if err := reservationAdminQuery(c).Preload("Doctor").
		Order("reservations.created_at DESC").
		Find(&reservations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reservations",
			Error:   err.Error(),
		})
	}

	workbook, err := utils.BuildReservationWorkbook(reservations)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to build export",
			Error:   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reservations.xlsx"`)
	return workbook.Write(c.Response().BodyWriter())
}
