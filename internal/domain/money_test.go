package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMinorHalfEven(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1"},    // rounds to even neighbor 1.00
		{"1.015", "1.02"}, // rounds to even neighbor 1.02
		{"1.025", "1.02"},
		{"2.675", "2.68"},
		{"10.124", "10.12"},
		{"10.126", "10.13"},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.in)
		assert.Equal(t, tc.want, RoundMinor(d).String(), "rounding %s", tc.in)
	}
}

func TestNearZero(t *testing.T) {
	assert.True(t, NearZero(decimal.Zero))
	assert.True(t, NearZero(decimal.RequireFromString("0.004")))
	assert.True(t, NearZero(decimal.RequireFromString("-0.004")))
	assert.False(t, NearZero(decimal.RequireFromString("0.01")))
	assert.False(t, NearZero(decimal.RequireFromString("-0.01")))
}

func TestBalanceSum(t *testing.T) {
	b := Balance{
		"alice": decimal.RequireFromString("-30"),
		"bob":   decimal.RequireFromString("-20"),
		"carol": decimal.RequireFromString("50"),
	}
	assert.True(t, b.Sum().IsZero())
}

func TestPairKeyUnordered(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	f := FriendshipStrengths{PairKey("bob", "alice"): 0.7}
	assert.Equal(t, 0.7, f.Strength("alice", "bob"))
	assert.Equal(t, 0.0, f.Strength("alice", "carol"))
}

func TestRateTable(t *testing.T) {
	table := RateTable{
		Reference: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("1.1"),
		},
	}

	rate, err := table.Rate("EUR")
	assert.NoError(t, err)
	assert.Equal(t, "1.1", rate.String())

	_, err = table.Rate("JPY")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("minCashFlow")
	assert.NoError(t, err)
	assert.Equal(t, StrategyMinCashFlow, s)

	s, err = ParseStrategy("")
	assert.NoError(t, err)
	assert.Equal(t, StrategyGreedy, s)

	_, err = ParseStrategy("bogus")
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}
