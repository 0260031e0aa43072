package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/salamatlab/clinic-booking/cron"
	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/redis"
	"github.com/salamatlab/clinic-booking/routes"
)

func main() {
	app := fiber.New()
	db.Migrate()
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	routes.SetupAuthRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupReservationRoutes(app)
	routes.SetupSettingRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
