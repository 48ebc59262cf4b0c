package economics

import (
	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
)

// Reconcile derives stock totals and revenue for one inventory line.
//
// Revenue comes from QuantitySold, never from the stock delta. The two may
// disagree and are not reconciled against each other.
func Reconcile(line domain.InventoryLine, isKeg bool) domain.ReconciledLine {
	out := domain.ReconciledLine{
		LineID:       line.ID,
		ProductID:    line.ProductID,
		StockMode:    domain.StockModeSimple,
		QuantitySold: line.QuantitySold.Int(),
	}
	if line.Product != nil {
		out.ProductName = line.Product.Name
	}

	if isKeg {
		out.StockMode = domain.StockModeKeg
		out.StartTotal = int(line.StartFull + line.StartOpened + line.StartEmpty)
		out.EndTotal = int(line.EndFull + line.EndOpened + line.EndEmpty)
	} else {
		out.StartTotal = line.StartQuantity.Int()
		out.EndTotal = line.EndQuantity.Int()
	}
	out.Delta = out.StartTotal - out.EndTotal

	sold := decimal.NewFromInt(int64(line.QuantitySold))
	out.RevenueHT = line.SalePriceHT.Mul(sold)
	out.RevenueTTC = line.SalePriceTTC.Mul(sold)
	return out
}
