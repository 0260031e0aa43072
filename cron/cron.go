package cron

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/salamatlab/clinic-booking/db"
	"github.com/salamatlab/clinic-booking/models"
	"github.com/salamatlab/clinic-booking/utils"
)

// StartCronJobs initializes and starts the scheduler for reservation
// reminders and the nightly report
func StartCronJobs() {
	c := cron.New()
	// Morning reminder for next-day reservations
	_, err := c.AddFunc("0 9 * * *", sendReservationReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	// Nightly report of the day's bookings
	_, err = c.AddFunc("0 21 * * *", emailDailyReport)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started")
}

// sendReservationReminders texts every patient booked for tomorrow.
func sendReservationReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1)

	var reservations []models.Reservation
	err := db.DB.Scopes(models.Active).Preload("Doctor").
		Where("year = ? AND month = ? AND date = ?",
			tomorrow.Year(), tomorrow.Month().String(), tomorrow.Day()).
		Find(&reservations).Error
	if err != nil {
		log.Printf("Error fetching reservations for reminders: %v", err)
		return
	}

	fmt.Printf("Found %d reservations for reminders\n", len(reservations))

	for _, reservation := range reservations {
		if err := utils.SendReservationSMS(db.DB, &reservation, &reservation.Doctor); err != nil {
			log.Printf("Failed to send reminder for reservation %d: %v", reservation.ID, err)
		}
	}
}

// emailDailyReport mails today's bookings as a spreadsheet to the clinic
// inbox configured in REPORT_EMAIL.
func emailDailyReport() {
	to := os.Getenv("REPORT_EMAIL")
	if to == "" {
		return
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var reservations []models.Reservation
	err := db.DB.Scopes(models.Active).Preload("Doctor").
		Where("created_at >= ?", start).
		Order("created_at").
		Find(&reservations).Error
	if err != nil {
		log.Printf("Error fetching reservations for report: %v", err)
		return
	}
	if len(reservations) == 0 {
		return
	}

	workbook, err := utils.BuildReservationWorkbook(reservations)
	if err != nil {
		log.Printf("Failed to build daily report: %v", err)
		return
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("reservations-%s.xlsx", now.Format("2006-01-02")))
	if err := workbook.SaveAs(path); err != nil {
		log.Printf("Failed to write daily report: %v", err)
		return
	}
	defer os.Remove(path)

	subject := fmt.Sprintf("Reservations for %s", now.Format("2006-01-02"))
	body := fmt.Sprintf("<p>%d reservations were booked today. The full list is attached.</p>", len(reservations))
	if err := utils.SendEmail(to, subject, body, path); err != nil {
		log.Printf("Failed to send daily report: %v", err)
	}
}
