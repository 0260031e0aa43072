package utils

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salamatlab/clinic-booking/models"
)

var exportHeader = []string{
	"Doctor", "Date", "Day of week", "Time",
	"First name", "Last name", "National code", "Mobile number",
}

// BuildReservationWorkbook renders reservations into a spreadsheet with
// the admin export column layout. Doctor must be preloaded on each row.
func BuildReservationWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for row, reservation := range reservations {
		values := []interface{}{
			fmt.Sprintf("%s(%s)", reservation.Doctor.Name, reservation.Doctor.Field),
			fmt.Sprintf("%d-%s-%d", reservation.Year, reservation.Month, reservation.Date),
			reservation.DayOfWeek,
			reservation.Time,
			reservation.FirstName,
			reservation.LastName,
			reservation.NationalCode,
			reservation.MobileNumber,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}
