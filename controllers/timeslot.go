package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/utils"
)

type timeSlotInput struct {
	DoctorID uint   `json:"doctor_id"`
	Date     string `json:"date"` // Format "2006-01-02"
	Time     string `json:"time"` // Format "HH:MM" in 24h
	IsActive *bool  `json:"is_active"`
}

func (in *timeSlotInput) validate() map[string]string {
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
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// GetDoctorSlots godoc
// @Summary List bookable slots of a doctor
// @Description Active, non-deleted slots for the doctor, ordered by date and time
// @Tags slots
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {array} models.TimeSlot
// @Failure 404 {object} utils.ErrorResponse
// @Router /doctors/{id}/slots [get]
func GetDoctorSlots(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	var slots []models.TimeSlot
	if err := db.DB.Scopes(models.Active).
		Where("doctor_id = ? AND is_active = ?", doctor.ID, true).
		Order("date, time").
		Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// AdminGetAllTimeSlots lists slots for staff, filterable by doctor_id and
// widened to deleted rows with include_deleted=true.
func AdminGetAllTimeSlots(c *fiber.Ctx) error {
	paginate, page, limit := utils.Paginate(c)

	query := db.DB.Model(&models.TimeSlot{})
	if c.Query("include_deleted") != "true" {
		query = query.Scopes(models.Active)
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}

	var count int64
	query.Count(&count)

	var slots []models.TimeSlot
	if err := query.Preload("Doctor").Scopes(paginate).Order("date, time").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"slots": slots,
		"total": count,
		"page":  page,
		"limit": limit,
		"pages": utils.PageCount(count, limit),
	})
}

// CreateTimeSlot godoc
// @Summary Publish a time slot
// @Tags slots
// @Accept json
// @Produce json
// @Success 201 {object} models.TimeSlot
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /admin/slots [post]
func CreateTimeSlot(c *fiber.Ctx) error {
	input := timeSlotInput{}
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

	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, input.DoctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	date, _ := time.Parse("2006-01-02", input.Date)
	slot := models.TimeSlot{
		DoctorID: doctor.ID,
		Date:     date,
		Time:     input.Time,
		IsActive: true,
	}
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}

	if err := db.DB.Create(&slot).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"time": "This slot already exists."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create slot",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

// UpdateTimeSlot changes the is_active flag or the slot timing.
func UpdateTimeSlot(c *fiber.Ctx) error {
	var slot models.TimeSlot
	if err := db.DB.Scopes(models.Active).First(&slot, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
			Error:   err.Error(),
		})
	}

	input := timeSlotInput{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": map[string]string{"date": "Invalid date, expected YYYY-MM-DD."},
			})
		}
		updates["date"] = date
	}
	if input.Time != "" {
		if !utils.IsValidClockTime(input.Time) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": map[string]string{"time": "Invalid time, expected HH:MM."},
			})
		}
		updates["time"] = input.Time
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := db.DB.Model(&slot).Updates(updates).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"time": "This slot already exists."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update slot",
			Error:   err.Error(),
		})
	}
	return c.JSON(slot)
}

// DeleteTimeSlot soft-deletes one slot.
func DeleteTimeSlot(c *fiber.Ctx) error {
	var slot models.TimeSlot
	if err := db.DB.Scopes(models.Active).First(&slot, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
			Error:   err.Error(),
		})
	}

	if err := models.SoftDelete(db.DB, &slot); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete slot",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RestoreTimeSlot revives one slot, even when its doctor is deleted.
func RestoreTimeSlot(c *fiber.Ctx) error {
	var slot models.TimeSlot
	if err := db.DB.First(&slot, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
			Error:   err.Error(),
		})
	}

	if err := models.Restore(db.DB, &slot); err != nil {
		if utils.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": map[string]string{"time": "An active slot already occupies this time."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to restore slot",
			Error:   err.Error(),
		})
	}
	return c.JSON(slot)
}
