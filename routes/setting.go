package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/controllers"
	"github.com/salamatlab/clinic-booking/middleware"
)

// SetupSettingRoutes configures public and admin settings access
func SetupSettingRoutes(app *fiber.App) {
	app.Get("/settings/:type", controllers.GetPublicSetting)

	admin := app.Group("/admin/settings", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/", controllers.AdminGetAllSettings)
	admin.Put("/", controllers.UpsertSetting)
}
