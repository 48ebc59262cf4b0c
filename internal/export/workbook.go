// Package export renders event economics as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"eventdesk/backend/internal/domain"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetSummary   = "Summary"
	SheetStaff     = "Staff"
	SheetInventory = "Inventory"
)

const timeLayout = "2006-01-02 15:04"

// EventWorkbook writes econ as an xlsx workbook. The Summary sheet holds the
// event totals; Staff and Inventory list the rows behind them.
func EventWorkbook(w io.Writer, econ domain.EventEconomics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{SheetStaff, SheetInventory} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, header, econ); err != nil {
		return err
	}
	if err := writeStaff(f, header, econ.Staff); err != nil {
		return err
	}
	if err := writeInventory(f, header, econ.Lines); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName is the attachment name offered for an event's workbook.
func FileName(econ domain.EventEconomics) string {
	if econ.EventDate.IsZero() {
		return fmt.Sprintf("economics-%s.xlsx", econ.EventID)
	}
	return fmt.Sprintf("economics-%s-%s.xlsx", econ.EventDate, econ.EventID)
}

func writeSummary(f *excelize.File, header int, econ domain.EventEconomics) error {
	rows := [][]any{
		{"Event", econ.EventTitle},
		{"Date", econ.EventDate.String()},
		{"Hours worked", num(econ.TotalHoursWorked)},
		{"Hourly rate", num(econ.HourlyRate)},
		{"Labor cost", num(econ.TotalLaborCost)},
		{"Incomplete shifts", econ.IncompleteShifts},
		{"Revenue HT", num(econ.TotalRevenueHT)},
		{"Revenue TTC", num(econ.TotalRevenueTTC)},
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), header); err != nil {
		return fmt.Errorf("style %s: %w", SheetSummary, err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 22)
}

func writeStaff(f *excelize.File, header int, staff []domain.ShiftAssignment) error {
	rows := [][]any{{"Barman", "Start", "End", "Hours", "Crosses midnight"}}
	for _, a := range staff {
		name := a.BarmanID
		if a.Barman != nil {
			name = a.Barman.FullName()
		}
		rows = append(rows, []any{name, formatTime(a.StartAt), formatTime(a.EndAt), num(a.HoursWorked), a.CrossesMidnight})
	}
	return writeTable(f, SheetStaff, header, rows)
}

func writeInventory(f *excelize.File, header int, lines []domain.ReconciledLine) error {
	rows := [][]any{{"Product", "Mode", "Start", "End", "Delta", "Sold", "Revenue HT", "Revenue TTC"}}
	for _, l := range lines {
		rows = append(rows, []any{
			l.ProductName, string(l.StockMode), l.StartTotal, l.EndTotal, l.Delta,
			l.QuantitySold, num(l.RevenueHT), num(l.RevenueTTC),
		})
	}
	return writeTable(f, SheetInventory, header, rows)
}

func writeTable(f *excelize.File, sheet string, header int, rows [][]any) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("style %s: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// num keeps money and hours numeric in the sheet.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
