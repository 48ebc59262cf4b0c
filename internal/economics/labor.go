package economics

import (
	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
)

var DefaultHourlyRate = decimal.RequireFromString("14.50")

// Rates holds the pricing inputs of the labor calculation.
type Rates struct {
	HourlyRate decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{HourlyRate: DefaultHourlyRate}
}

// AssignmentHours recomputes the hours of a stored assignment from its
// timestamps. The persisted HoursWorked value is not consulted.
func AssignmentHours(a domain.ShiftAssignment) decimal.Decimal {
	if !a.Complete() {
		return decimal.Zero
	}
	return HoursBetween(*a.StartAt, *a.EndAt)
}

// LaborCost sums the hours of every assignment and prices them at the hourly
// rate. Incomplete assignments count for zero hours and are tallied apart.
func LaborCost(assignments []domain.ShiftAssignment, rates Rates) domain.LaborSummary {
	total := decimal.Zero
	incomplete := 0
	for _, a := range assignments {
		if !a.Complete() {
			incomplete++
			continue
		}
		total = total.Add(AssignmentHours(a))
	}
	return domain.LaborSummary{
		TotalHours:       total,
		TotalCost:        total.Mul(rates.HourlyRate),
		HourlyRate:       rates.HourlyRate,
		Assignments:      len(assignments),
		IncompleteShifts: incomplete,
	}
}
