package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{
	"Created At", "Booking ID", "Facility", "User", "Date",
	"Start", "End", "Slots", "Total Price", "Status", "Rows",
}

// WriteGroups renders grouped bookings as an XLSX workbook. Times are
// shown in loc.
func WriteGroups(w io.Writer, groups []reservation.Group, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, g := range groups {
		row := []any{
			g.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			g.ID,
			g.FacilityName,
			optional(g.UserID),
			reservation.FormatDate(g.BookingDate),
			clock(g.Start, loc),
			clock(g.End, loc),
			strings.Join(g.Slots, ", "),
			g.TotalPrice,
			string(g.Status),
			len(g.Items),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return "guest"
	}
	return *s
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}
