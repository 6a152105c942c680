package engine

import (
	"testing"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdTable() domain.RateTable {
	return domain.RateTable{
		Reference: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("1.10"),
			"GBP": decimal.RequireFromString("1.25"),
		},
	}
}

func TestNormalizeConvertsToReference(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "EUR"),
		debt("bob", "carol", "8", "GBP"),
		debt("carol", "alice", "5", "USD"),
	})
	require.NoError(t, err)

	normalized, err := Normalize(g, usdTable())
	require.NoError(t, err)

	require.Len(t, normalized.Debts, 3)
	for _, d := range normalized.Debts {
		assert.Equal(t, "USD", d.Currency)
	}
	assert.Equal(t, "11", normalized.Debts[0].Amount.String())  // 10 EUR * 1.10
	assert.Equal(t, "10", normalized.Debts[1].Amount.String())  // 8 GBP * 1.25
	assert.Equal(t, "5", normalized.Debts[2].Amount.String())
}

func TestNormalizeMergesConvertedEdges(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("alice", "bob", "10", "EUR"),
	})
	require.NoError(t, err)

	normalized, err := Normalize(g, usdTable())
	require.NoError(t, err)

	require.Len(t, normalized.Debts, 1)
	assert.Equal(t, "21", normalized.Debts[0].Amount.String())
}

func TestNormalizeUnknownCurrencyFailsFast(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("bob", "carol", "100", "JPY"),
	})
	require.NoError(t, err)

	_, err = Normalize(g, usdTable())
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestNormalizeRoundsHalfEven(t *testing.T) {
	table := domain.RateTable{
		Reference: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("1.005"),
		},
	}
	g, err := BuildGraph([]domain.Debt{debt("alice", "bob", "1", "EUR")})
	require.NoError(t, err)

	normalized, err := Normalize(g, table)
	require.NoError(t, err)
	// 1 * 1.005 rounds half-even to 1.00
	assert.Equal(t, "1", normalized.Debts[0].Amount.String())
}

func TestRedenominatePayerPreferredCurrency(t *testing.T) {
	settlements := []domain.Settlement{
		{From: "alice", To: "carol", Amount: decimal.RequireFromString("22"), Currency: "USD"},
		{From: "bob", To: "carol", Amount: decimal.RequireFromString("10"), Currency: "USD"},
	}

	out, err := Redenominate(settlements, usdTable(), map[string]string{"alice": "EUR"})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "EUR", out[0].Currency)
	assert.Equal(t, "20", out[0].Amount.String()) // 22 / 1.10
	assert.Equal(t, "alice", out[0].From)
	assert.Equal(t, "carol", out[0].To)

	// No preference: untouched.
	assert.Equal(t, "USD", out[1].Currency)
	assert.Equal(t, "10", out[1].Amount.String())
}

func TestRedenominateUnknownCurrency(t *testing.T) {
	settlements := []domain.Settlement{
		{From: "alice", To: "carol", Amount: decimal.NewFromInt(10), Currency: "USD"},
	}
	_, err := Redenominate(settlements, usdTable(), map[string]string{"alice": "JPY"})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestCurrencyRoundTripPreservesPairs(t *testing.T) {
	debts := []domain.Debt{
		debt("alice", "carol", "30", "EUR"),
		debt("bob", "carol", "20", "USD"),
	}
	g, err := BuildGraph(debts)
	require.NoError(t, err)

	normalized, err := Normalize(g, usdTable())
	require.NoError(t, err)

	balances, err := ComputeBalances(normalized)
	require.NoError(t, err)

	settlements, err := Optimize(domain.StrategyGreedy, balances, "USD", nil)
	require.NoError(t, err)

	redenominated, err := Redenominate(settlements, usdTable(), map[string]string{"alice": "EUR", "bob": "GBP"})
	require.NoError(t, err)

	require.Len(t, redenominated, len(settlements))
	for i := range settlements {
		assert.Equal(t, settlements[i].From, redenominated[i].From)
		assert.Equal(t, settlements[i].To, redenominated[i].To)
	}
}
