package fees

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Calculator derives the platform fee from a trade's naira value. Pure and
// deterministic: the same inputs always produce the same breakdown.
type Calculator struct {
	rate decimal.Decimal // fraction, e.g. 0.01 for a 1% fee
}

// NewCalculator takes the configured fee percentage (1 means 1%).
func NewCalculator(percentage decimal.Decimal) *Calculator {
	return &Calculator{rate: percentage.Div(oneHundred)}
}

// Fee is the charge on one trade, rounded to 2 fractional digits
// (half away from zero) so repeated trades cannot accumulate sub-kobo drift.
func (c *Calculator) Fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.rate).Round(2)
}

// BuyTotal is what a buyer pays: the trade amount plus the fee.
type BuyTotal struct {
	Amount decimal.Decimal
	Fee    decimal.Decimal
	Total  decimal.Decimal
}

func (c *Calculator) BuyTotal(amount decimal.Decimal) BuyTotal {
	fee := c.Fee(amount)
	return BuyTotal{
		Amount: amount,
		Fee:    fee,
		Total:  amount.Add(fee),
	}
}

// SellCredit is what a seller receives: the trade value minus the fee.
type SellCredit struct {
	Value  decimal.Decimal
	Fee    decimal.Decimal
	Credit decimal.Decimal
}

func (c *Calculator) SellCredit(value decimal.Decimal) SellCredit {
	fee := c.Fee(value)
	return SellCredit{
		Value:  value,
		Fee:    fee,
		Credit: value.Sub(fee),
	}
}

// Percentage reports the configured fee as a percent value.
func (c *Calculator) Percentage() decimal.Decimal {
	return c.rate.Mul(oneHundred)
}
