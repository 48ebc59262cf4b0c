package economics

import (
	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
)

// Totals adds up the revenue of reconciled lines. HT and TTC are summed as
// given; no VAT is recomputed here.
func Totals(lines []domain.ReconciledLine) domain.EventTotals {
	ht, ttc := decimal.Zero, decimal.Zero
	for _, l := range lines {
		ht = ht.Add(l.RevenueHT)
		ttc = ttc.Add(l.RevenueTTC)
	}
	return domain.EventTotals{TotalRevenueHT: ht, TotalRevenueTTC: ttc}
}

// Summarize builds the full economic view of an event from its roster and
// inventory. Each line is reconciled in the mode of its joined product.
func Summarize(event domain.Event, staff []domain.ShiftAssignment, inventory []domain.InventoryLine, rates Rates) domain.EventEconomics {
	labor := LaborCost(staff, rates)

	lines := make([]domain.ReconciledLine, 0, len(inventory))
	for _, line := range inventory {
		lines = append(lines, Reconcile(line, ModeOf(line.Product) == domain.StockModeKeg))
	}
	totals := Totals(lines)

	if staff == nil {
		staff = []domain.ShiftAssignment{}
	}
	return domain.EventEconomics{
		EventID:          event.ID,
		EventTitle:       event.Title,
		EventDate:        event.Date,
		TotalHoursWorked: labor.TotalHours,
		TotalLaborCost:   labor.TotalCost,
		HourlyRate:       labor.HourlyRate,
		IncompleteShifts: labor.IncompleteShifts,
		TotalRevenueHT:   totals.TotalRevenueHT,
		TotalRevenueTTC:  totals.TotalRevenueTTC,
		Lines:            lines,
		Staff:            staff,
	}
}
