package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salamatlab/clinic-booking/controllers"
	"github.com/salamatlab/clinic-booking/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/login", controllers.Login)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetProfile)
	auth.Post("/change-password", middleware.Protected(), controllers.ChangePassword)

	// Staff management
	staff := app.Group("/admin/staff", middleware.Protected(), middleware.RequireAdmin())
	staff.Get("/", controllers.GetAllStaff)
	staff.Post("/", controllers.CreateStaff)
}
