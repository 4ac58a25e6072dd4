package app

import (
	"github.com/shopspring/decimal"

	"github.com/nhle/homekeeper/internal/model"
)

// TotalCost sums record costs. Records without a cost count as zero.
func TotalCost(records []model.MaintenanceRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.CostOrZero())
	}
	return total
}

// AverageCost divides the total by the number of records, including
// records with no cost. It is zero for an empty slice.
func AverageCost(records []model.MaintenanceRecord) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return TotalCost(records).Div(decimal.NewFromInt(int64(len(records))))
}
