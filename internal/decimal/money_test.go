package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/decimal"
)

func TestFromInt(t *testing.T) {
	d := decimal.FromInt(100000)
	assert.True(t, d.Equal(dec.NewFromInt(100000)))
}

func TestFromFloat(t *testing.T) {
	d := decimal.FromFloat(100.555)
	// Should round to 2 decimal places (öre)
	assert.True(t, d.Equal(dec.NewFromFloat(100.56)))
}

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestMul(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromFloat(0.15)
	result := decimal.Mul(a, b)
	assert.True(t, result.Equal(dec.NewFromInt(15)))
}

func TestDiv(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromInt(3)
	result := decimal.Div(a, b)
	assert.True(t, result.Equal(dec.RequireFromString("33.33")))

	// Division by zero returns zero
	result = decimal.Div(a, dec.Zero)
	assert.True(t, result.IsZero())
}

func TestCalculateVAT(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		ratePercent int
		expected    string
	}{
		{"25% of 1000.00", "1000.00", 25, "250.00"},
		{"12% of 1000.00", "1000.00", 12, "120.00"},
		{"6% of 1000.00", "1000.00", 6, "60.00"},
		{"0% of 1000.00", "1000.00", 0, "0.00"},
		{"25% of 99.99 (rounds to nearest öre)", "99.99", 25, "25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec.RequireFromString(tt.amount)
			result := decimal.CalculateVAT(amount, tt.ratePercent)
			expected := dec.RequireFromString(tt.expected)

			assert.True(t, result.Equal(expected),
				"amount=%s, rate=%d%%: got %s, want %s",
				tt.amount, tt.ratePercent, result.String(), tt.expected)
		})
	}
}

func TestCalculateLineTotal(t *testing.T) {
	amount := dec.RequireFromString("1000.00")
	discount := dec.RequireFromString("100.00")
	vat := dec.RequireFromString("225.00")

	// Total = 1000.00 - 100.00 + 225.00 = 1125.00
	result := decimal.CalculateLineTotal(amount, discount, vat)
	assert.True(t, result.Equal(dec.RequireFromString("1125.00")))
}

func TestCalculatePercentage(t *testing.T) {
	amount := dec.RequireFromString("500.00")
	percentage := dec.NewFromInt(25)

	// 25% of 500.00 = 125.00
	result := decimal.CalculatePercentage(amount, percentage)
	assert.True(t, result.Equal(dec.RequireFromString("125.00")))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}

func TestRoundSEK(t *testing.T) {
	d := dec.RequireFromString("123456.789")
	result := decimal.RoundSEK(d)
	assert.True(t, result.Equal(dec.RequireFromString("123456.79")))
}

func TestAbsDiff(t *testing.T) {
	a := dec.RequireFromString("100.00")
	b := dec.RequireFromString("103.50")
	assert.True(t, decimal.AbsDiff(a, b).Equal(dec.RequireFromString("3.50")))
	assert.True(t, decimal.AbsDiff(b, a).Equal(dec.RequireFromString("3.50")))
}
