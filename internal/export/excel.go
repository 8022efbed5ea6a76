package export

import (
	"bytes"
	"fmt"

	"achihouse/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservations"

var columnHeaders = []string{
	"ID", "Guest", "Phone", "Email", "Guests", "Date", "Time", "Status", "Note", "Created At",
}

// ReservationsToExcel renders the requests into an xlsx workbook the
// managers can open directly.
func ReservationsToExcel(requests []models.ReservationRequest, start, end string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Reservation requests: %s - %s", start, end))

	for i, header := range columnHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	firstHeader, _ := excelize.CoordinatesToCellName(1, 2)
	lastHeader, _ := excelize.CoordinatesToCellName(len(columnHeaders), 2)
	_ = f.SetCellStyle(sheetName, firstHeader, lastHeader, headerStyle)

	for i, r := range requests {
		row := i + 3
		values := []interface{}{
			r.ID,
			r.FullName,
			r.PhoneNumber,
			r.Email,
			r.GuestCount,
			r.ReservationDate,
			r.ReservationTime,
			r.Status,
			r.Note,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "H", 12)
	_ = f.SetColWidth(sheetName, "I", "J", 30)

	lastCol, _ := excelize.CoordinatesToCellName(len(columnHeaders), 1)
	_ = f.MergeCell(sheetName, "A1", lastCol)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}
	return buf.Bytes(), nil
}
