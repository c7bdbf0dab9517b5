package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFee(t *testing.T) {
	tests := []struct {
		name       string
		percentage string
		amount     string
		want       string
	}{
		{"one percent of 100000", "1", "100000", "1000"},
		{"one percent of 50000", "1", "50000", "500"},
		{"rounds to two decimals", "1", "123.456", "1.23"},
		{"half rounds away from zero", "1", "150.5", "1.51"},
		{"zero amount", "1", "0", "0"},
		{"half percent", "0.5", "100000", "500"},
		{"repeated application does not drift", "1", "0.01", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewCalculator(dec(tc.percentage))
			got := calc.Fee(dec(tc.amount))
			assert.True(t, got.Equal(dec(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestBuyTotal(t *testing.T) {
	calc := NewCalculator(dec("1"))

	bt := calc.BuyTotal(dec("100000"))

	assert.True(t, bt.Amount.Equal(dec("100000")), "amount: %s", bt.Amount)
	assert.True(t, bt.Fee.Equal(dec("1000")), "fee: %s", bt.Fee)
	assert.True(t, bt.Total.Equal(dec("101000")), "total: %s", bt.Total)
}

func TestSellCredit(t *testing.T) {
	calc := NewCalculator(dec("1"))

	sc := calc.SellCredit(dec("100000"))

	assert.True(t, sc.Value.Equal(dec("100000")), "value: %s", sc.Value)
	assert.True(t, sc.Fee.Equal(dec("1000")), "fee: %s", sc.Fee)
	assert.True(t, sc.Credit.Equal(dec("99000")), "credit: %s", sc.Credit)
}

func TestPercentage(t *testing.T) {
	calc := NewCalculator(dec("1.5"))
	assert.True(t, calc.Percentage().Equal(dec("1.5")))
}
