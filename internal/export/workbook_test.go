package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eventdesk/backend/internal/domain"
)

func sampleEconomics() domain.EventEconomics {
	start := time.Date(2025, time.June, 21, 22, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 22, 2, 0, 0, 0, time.UTC)
	return domain.EventEconomics{
		EventID:          "evt_1",
		EventTitle:       "Fête de la musique",
		EventDate:        domain.NewDate(2025, time.June, 21),
		TotalHoursWorked: decimal.RequireFromString("4"),
		TotalLaborCost:   decimal.RequireFromString("58"),
		HourlyRate:       decimal.RequireFromString("14.50"),
		TotalRevenueHT:   decimal.RequireFromString("300"),
		TotalRevenueTTC:  decimal.RequireFromString("360"),
		Staff: []domain.ShiftAssignment{{
			ID:              "stf_1",
			BarmanID:        "brm_1",
			StartAt:         &start,
			EndAt:           &end,
			HoursWorked:     decimal.RequireFromString("4"),
			CrossesMidnight: true,
			Barman:          &domain.Barman{FirstName: "Léa", LastName: "Martin"},
		}},
		Lines: []domain.ReconciledLine{{
			ProductName:  "Fût Blonde 30L",
			StockMode:    domain.StockModeKeg,
			StartTotal:   3,
			EndTotal:     3,
			QuantitySold: 2,
			RevenueHT:    decimal.RequireFromString("300"),
			RevenueTTC:   decimal.RequireFromString("360"),
		}},
	}
}

func TestEventWorkbookSheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EventWorkbook(&buf, sampleEconomics()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetStaff, SheetInventory}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 8)
	assert.Equal(t, []string{"Event", "Fête de la musique"}, summary[0])
	assert.Equal(t, []string{"Date", "2025-06-21"}, summary[1])
	assert.Equal(t, []string{"Labor cost", "58"}, summary[4])
	assert.Equal(t, []string{"Revenue TTC", "360"}, summary[7])

	staff, err := f.GetRows(SheetStaff)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, []string{"Léa Martin", "2025-06-21 22:00", "2025-06-22 02:00", "4", "TRUE"}, staff[1])

	inventory, err := f.GetRows(SheetInventory)
	require.NoError(t, err)
	require.Len(t, inventory, 2)
	assert.Equal(t, []string{"Fût Blonde 30L", "keg", "3", "3", "0", "2", "300", "360"}, inventory[1])
}

func TestEventWorkbookEmptyEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EventWorkbook(&buf, domain.EventEconomics{EventID: "evt_2"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetStaff)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	econ := sampleEconomics()
	assert.Equal(t, "economics-2025-06-21-evt_1.xlsx", FileName(econ))

	econ.EventDate = domain.Date{}
	assert.Equal(t, "economics-evt_1.xlsx", FileName(econ))
}
