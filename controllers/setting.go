package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/utils"
)

// Only these settings are readable without authentication.
var publicSettingTypes = map[models.SettingType]bool{
	models.SettingReservePrice: true,
	models.SettingTermsContent: true,
}

var knownSettingTypes = map[models.SettingType]bool{
	models.SettingActivateGateway: true,
	models.SettingGatewayToken:    true,
	models.SettingReservePrice:    true,
	models.SettingTermsContent:    true,
	models.SettingUseRedisCache:   true,
}

// GetPublicSetting godoc
// @Summary Read a public setting
// @Tags settings
// @Produce json
// @Param type path string true "Setting type"
// @Success 200 {object} fiber.Map
// @Failure 404 {object} utils.ErrorResponse
// @Router /settings/{type} [get]
func GetPublicSetting(c *fiber.Ctx) error {
	settingType := models.SettingType(c.Params("type"))
	if !publicSettingTypes[settingType] {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Setting not found",
			Error:   "unknown setting type",
		})
	}

	// Absent rows read as an empty value, not an error.
	return c.JSON(fiber.Map{
		"type":  settingType,
		"value": models.GetSetting(db.DB, settingType, ""),
	})
}

// AdminGetAllSettings lists every stored setting row.
func AdminGetAllSettings(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := db.DB.Order("type").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch settings",
			Error:   err.Error(),
		})
	}
	return c.JSON(settings)
}

// UpsertSetting creates or updates the row for a setting type.
func UpsertSetting(c *fiber.Ctx) error {
	type settingInput struct {
		Type  models.SettingType `json:"type"`
		Value string             `json:"value"`
	}

	input := settingInput{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if !knownSettingTypes[input.Type] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string]string{"type": "Invalid value."},
		})
	}

	var setting models.Setting
	if db.DB.Where("type = ?", input.Type).First(&setting).RowsAffected == 0 {
		setting = models.Setting{Type: input.Type, Value: input.Value}
		if err := db.DB.Create(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create setting",
				Error:   err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(setting)
	}

	if err := db.DB.Model(&setting).Update("value", input.Value).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update setting",
			Error:   err.Error(),
		})
	}
	return c.JSON(setting)
}
