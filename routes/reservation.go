package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/controllers"
	"github.com/salamatlab/clinic-booking/middleware"
)

// SetupReservationRoutes configures the public booking flow and the admin
// reservation surface
func SetupReservationRoutes(app *fiber.App) {
	reservations := app.Group("/reservations")
	reservations.Post("/send-otp", controllers.SendReservationOTP)
	reservations.Post("/", controllers.CreateReservation)

	admin := app.Group("/admin/reservations", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/", controllers.AdminGetAllReservations)
	admin.Get("/export", controllers.ExportReservations)
	admin.Post("/restore", controllers.BulkRestoreReservations)
	admin.Get("/:id", controllers.GetReservation)
	admin.Delete("/:id", controllers.DeleteReservation)
	admin.Post("/:id/restore", controllers.RestoreReservation)
}
