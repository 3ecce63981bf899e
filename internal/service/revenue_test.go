package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-revenue-service/internal/models"
)

func TestLineItemAmount(t *testing.T) {
	calc := NewRevenueCalculator(0.10)

	amount := calc.LineItemAmount(models.LineItem{
		UnitPrice: decimal.NewFromInt(200_000),
		Quantity:  4,
	})
	assert.True(t, amount.Equal(decimal.NewFromInt(800_000)), amount.String())
}

func TestLineItemAmountRoundsHalfUp(t *testing.T) {
	calc := NewRevenueCalculator(0.10)

	price, err := decimal.NewFromString("333.335")
	require.NoError(t, err)
	amount := calc.LineItemAmount(models.LineItem{UnitPrice: price, Quantity: 1})
	assert.Equal(t, "333.34", amount.StringFixed(2))

	price, err = decimal.NewFromString("0.005")
	require.NoError(t, err)
	amount = calc.LineItemAmount(models.LineItem{UnitPrice: price, Quantity: 1})
	assert.Equal(t, "0.01", amount.StringFixed(2))
}

func TestServiceFeeAndPartnerPool(t *testing.T) {
	calc := NewRevenueCalculator(0.10)

	total := decimal.NewFromInt(1_100_000)
	fee := calc.ServiceFee(total)
	pool := calc.PartnerPool(total)

	assert.True(t, fee.Equal(decimal.NewFromInt(100_000)), fee.String())
	assert.True(t, pool.Equal(decimal.NewFromInt(1_000_000)), pool.String())
	assert.True(t, fee.Add(pool).Equal(total))
}

func TestServiceFeeRounding(t *testing.T) {
	calc := NewRevenueCalculator(0.10)

	// 100 * 0.10 / 1.10 = 9.0909... rounds to 9.09
	fee := calc.ServiceFee(decimal.NewFromInt(100))
	assert.Equal(t, "9.09", fee.StringFixed(2))

	pool := calc.PartnerPool(decimal.NewFromInt(100))
	assert.Equal(t, "90.91", pool.StringFixed(2))
}

func TestServiceFeeZeroTotal(t *testing.T) {
	calc := NewRevenueCalculator(0.10)

	assert.True(t, calc.ServiceFee(decimal.Zero).IsZero())
	assert.True(t, calc.PartnerPool(decimal.Zero).IsZero())
}
