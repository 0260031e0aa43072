package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/utils"
)

func doctorSearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	like := "%" + search + "%"
	return query.Where(
		"name LIKE ? OR phone LIKE ? OR national_code LIKE ? OR field LIKE ?",
		like, like, like, like,
	)
}

// GetAllDoctors godoc
// @Summary List active doctors
// @Description Paginated list of active doctors, searchable by name, phone, national code and field
// @Tags doctors
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /doctors [get]
func GetAllDoctors(c *fiber.Ctx) error {
	paginate, page, limit := utils.Paginate(c)

	var doctors []models.Doctor
	query := doctorSearch(db.DB.Scopes(models.Active).Model(&models.Doctor{}), c.Query("search"))

	var count int64
	query.Count(&count)

	if err := query.Scopes(paginate).Order("name").Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"doctors": doctors,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   utils.PageCount(count, limit),
	})
}

// GetDoctor godoc
// @Summary Get an active doctor by ID
// @Tags doctors
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} models.Doctor
// @Failure 404 {object} utils.ErrorResponse
// @Router /doctors/{id} [get]
func GetDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

// AdminGetAllDoctors lists doctors for staff; include_deleted=true widens
// the listing to soft-deleted rows for audit and restore.
func AdminGetAllDoctors(c *fiber.Ctx) error {
	paginate, page, limit := utils.Paginate(c)

	query := db.DB.Model(&models.Doctor{})
	if c.Query("include_deleted") != "true" {
		query = query.Scopes(models.Active)
	}
	query = doctorSearch(query, c.Query("search"))

	var count int64
	query.Count(&count)

	var doctors []models.Doctor
	if err := query.Scopes(paginate).Order("id DESC").Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"doctors": doctors,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   utils.PageCount(count, limit),
	})
}

// CreateDoctor godoc
// @Summary Create a doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Param doctor body models.Doctor true "Doctor"
// @Success 201 {object} models.Doctor
// @Failure 400 {object} utils.ErrorResponse
// @Router /admin/doctors [post]
func CreateDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := c.BodyParser(&doctor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if doctor.Name == "" || doctor.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}
	if doctor.Phone != "" && !utils.IsValidMobileNumber(doctor.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string]string{"phone": "Invalid mobile number format."},
		})
	}

	if err := db.DB.Create(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// UpdateDoctor godoc
// @Summary Update a doctor by ID
// @Tags doctors
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} models.Doctor
// @Failure 404 {object} utils.ErrorResponse
// @Router /admin/doctors/{id} [patch]
func UpdateDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	var input models.Doctor
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Phone != "" && !utils.IsValidMobileNumber(input.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string]string{"phone": "Invalid mobile number format."},
		})
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}
	if input.NationalCode != "" {
		updates["national_code"] = input.NationalCode
	}
	if input.Address != "" {
		updates["address"] = input.Address
	}
	if input.Field != "" {
		updates["field"] = input.Field
	}

	if err := db.DB.Model(&doctor).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update doctor",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

// DeleteDoctor soft-deletes a doctor and cascades to their slots and
// reservations in one transaction.
func DeleteDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	if err := models.SoftDelete(db.DB, &doctor); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete doctor",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RestoreDoctor revives a soft-deleted doctor. Slots and reservations
// deleted with them stay deleted and are restored explicitly.
func RestoreDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	if err := models.Restore(db.DB, &doctor); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to restore doctor",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

// UploadDoctorPhoto stores a portrait for the doctor and saves the URL.
func UploadDoctorPhoto(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := db.DB.Scopes(models.Active).First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing photo file",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot read photo file",
		})
	}
	defer file.Close()

	url, err := utils.UploadDoctorPhoto(file, fmt.Sprintf("doctor-%d", doctor.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&doctor).Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save photo URL",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}
