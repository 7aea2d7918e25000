package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		name        string
		part, whole string
		want        string
	}{
		{"half", "50", "100", "50"},
		{"over", "150", "100", "150"},
		{"zero whole", "25", "0", "0"},
		{"zero part", "0", "80", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Percent(decimal.RequireFromString(tc.part), decimal.RequireFromString(tc.whole))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestRoundAndSum(t *testing.T) {
	total := Sum(decimal.RequireFromString("10.005"), decimal.RequireFromString("0.1"))
	assert.Equal(t, "10.11", Round(total).String())
	assert.True(t, Sum().IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, IsPositive(decimal.RequireFromString("0.01")))
	assert.False(t, IsPositive(decimal.Zero))
	assert.False(t, IsPositive(decimal.RequireFromString("-3")))
}

func TestStorable(t *testing.T) {
	cases := []struct {
		amount string
		want   bool
	}{
		{"12.5", true},
		{"12.50", true},
		{"12.500", true},
		{"0.001", false},
		{"9999999999.99", true},
		{"10000000000", false},
		{"-10000000000", false},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, Storable(decimal.RequireFromString(tc.amount)))
		})
	}
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	out, err := json.Marshal(map[string]decimal.Decimal{"amount": decimal.RequireFromString("12.50")})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"amount": 12.5}`, string(out))
}
