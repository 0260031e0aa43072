package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/controllers"
	"github.com/salamatlab/clinic-booking/middleware"
)

// SetupDoctorRoutes configures public doctor browsing and the admin
// doctor/slot management surface
func SetupDoctorRoutes(app *fiber.App) {
	doctors := app.Group("/doctors")
	doctors.Get("/", controllers.GetAllDoctors)
	doctors.Get("/:id", controllers.GetDoctor)
	doctors.Get("/:id/slots", controllers.GetDoctorSlots)

	admin := app.Group("/admin/doctors", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/", controllers.AdminGetAllDoctors)
	admin.Post("/", controllers.CreateDoctor)
	admin.Patch("/:id", controllers.UpdateDoctor)
	admin.Delete("/:id", controllers.DeleteDoctor)
	admin.Post("/:id/restore", controllers.RestoreDoctor)
	admin.Post("/:id/photo", controllers.UploadDoctorPhoto)

	slots := app.Group("/admin/slots", middleware.Protected(), middleware.RequireAdmin())
	slots.Get("/", controllers.AdminGetAllTimeSlots)
	slots.Post("/", controllers.CreateTimeSlot)
	slots.Patch("/:id", controllers.UpdateTimeSlot)
	slots.Delete("/:id", controllers.DeleteTimeSlot)
	slots.Post("/:id/restore", controllers.RestoreTimeSlot)
}
