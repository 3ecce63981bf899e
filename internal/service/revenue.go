package service

import (
	"tour-revenue-service/internal/models"

	"github.com/shopspring/decimal"
)

// RevenueCalculator applies the fee model. A booking's total price is
// assumed to carry the platform service fee on top of a net partner
// pool: fee = total * rate / (1 + rate). Line items are priced straight
// from catalog prices and are not scaled to the pool.
type RevenueCalculator struct {
	feeRate decimal.Decimal
}

func NewRevenueCalculator(feeRate float64) *RevenueCalculator {
	return &RevenueCalculator{feeRate: decimal.NewFromFloat(feeRate)}
}

// LineItemAmount prices one line item: unit_price * quantity, rounded
// half-up to two fractional digits.
func (c *RevenueCalculator) LineItemAmount(item models.LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)).Round(2)
}

// ServiceFee is the platform's cut of one booking's gross price.
func (c *RevenueCalculator) ServiceFee(totalPrice decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	return totalPrice.Mul(c.feeRate).Div(one.Add(c.feeRate)).Round(2)
}

// PartnerPool is the net revenue of one booking after the service fee.
// Reported in the completion response; not reconciled against accruals.
func (c *RevenueCalculator) PartnerPool(totalPrice decimal.Decimal) decimal.Decimal {
	return totalPrice.Sub(c.ServiceFee(totalPrice))
}
