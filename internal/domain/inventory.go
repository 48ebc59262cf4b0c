package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLine is the stock and sales record of one product at one event.
// Only one group of counts is meaningful, chosen by the product's StockMode:
// StartQuantity/EndQuantity for simple products, the Full/Opened/Empty
// counts for kegs.
type InventoryLine struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id"`
	ProductID     string          `json:"product_id"`
	SalePriceHT   decimal.Decimal `json:"sale_price_ht"`
	SalePriceTTC  decimal.Decimal `json:"sale_price_ttc"`
	QuantitySold  Count           `json:"quantity"`
	StartQuantity Count           `json:"inventory_start_quantity"`
	EndQuantity   Count           `json:"inventory_end_quantity"`
	StartFull     Count           `json:"inventory_start_full"`
	StartOpened   Count           `json:"inventory_start_opened"`
	StartEmpty    Count           `json:"inventory_start_empty"`
	EndFull       Count           `json:"inventory_end_full"`
	EndOpened     Count           `json:"inventory_end_opened"`
	EndEmpty      Count           `json:"inventory_end_empty"`
	CreatedAt     time.Time       `json:"created_at"`
	Product       *Product        `json:"product,omitempty"`
}

type InventoryCreateRequest struct {
	ProductID     string          `json:"product_id"`
	SalePriceHT   decimal.Decimal `json:"sale_price_ht"`
	SalePriceTTC  decimal.Decimal `json:"sale_price_ttc"`
	QuantitySold  Count           `json:"quantity"`
	StartQuantity Count           `json:"inventory_start_quantity"`
	EndQuantity   Count           `json:"inventory_end_quantity"`
	StartFull     Count           `json:"inventory_start_full"`
	StartOpened   Count           `json:"inventory_start_opened"`
	StartEmpty    Count           `json:"inventory_start_empty"`
	EndFull       Count           `json:"inventory_end_full"`
	EndOpened     Count           `json:"inventory_end_opened"`
	EndEmpty      Count           `json:"inventory_end_empty"`
}

type InventoryUpdateRequest struct {
	SalePriceHT   *decimal.Decimal `json:"sale_price_ht,omitempty"`
	SalePriceTTC  *decimal.Decimal `json:"sale_price_ttc,omitempty"`
	QuantitySold  *Count           `json:"quantity,omitempty"`
	StartQuantity *Count           `json:"inventory_start_quantity,omitempty"`
	EndQuantity   *Count           `json:"inventory_end_quantity,omitempty"`
	StartFull     *Count           `json:"inventory_start_full,omitempty"`
	StartOpened   *Count           `json:"inventory_start_opened,omitempty"`
	StartEmpty    *Count           `json:"inventory_start_empty,omitempty"`
	EndFull       *Count           `json:"inventory_end_full,omitempty"`
	EndOpened     *Count           `json:"inventory_end_opened,omitempty"`
	EndEmpty      *Count           `json:"inventory_end_empty,omitempty"`
}

// ReconciledLine is the derived stock and revenue view of an InventoryLine.
// Delta is StartTotal-EndTotal: positive when stock was consumed.
type ReconciledLine struct {
	LineID       string          `json:"line_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	StockMode    StockMode       `json:"stock_mode"`
	StartTotal   int             `json:"start_total"`
	EndTotal     int             `json:"end_total"`
	Delta        int             `json:"delta"`
	QuantitySold int             `json:"quantity_sold"`
	RevenueHT    decimal.Decimal `json:"revenue_ht"`
	RevenueTTC   decimal.Decimal `json:"revenue_ttc"`
}

type LaborSummary struct {
	TotalHours       decimal.Decimal `json:"total_hours"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	Assignments      int             `json:"assignments"`
	IncompleteShifts int             `json:"incomplete_shifts"`
}

type EventTotals struct {
	TotalRevenueHT  decimal.Decimal `json:"total_revenue_ht"`
	TotalRevenueTTC decimal.Decimal `json:"total_revenue_ttc"`
}

// EventEconomics is computed on request and never persisted.
type EventEconomics struct {
	EventID          string            `json:"event_id"`
	EventTitle       string            `json:"event_title"`
	EventDate        Date              `json:"event_date"`
	TotalHoursWorked decimal.Decimal   `json:"total_hours_worked"`
	TotalLaborCost   decimal.Decimal   `json:"total_labor_cost"`
	HourlyRate       decimal.Decimal   `json:"hourly_rate"`
	IncompleteShifts int               `json:"incomplete_shifts"`
	TotalRevenueHT   decimal.Decimal   `json:"total_revenue_ht"`
	TotalRevenueTTC  decimal.Decimal   `json:"total_revenue_ttc"`
	Lines            []ReconciledLine  `json:"lines"`
	Staff            []ShiftAssignment `json:"staff"`
}
