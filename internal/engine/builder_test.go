package engine

import (
	"testing"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debt(from, to, amount, currency string) domain.Debt {
	return domain.Debt{From: from, To: to, Amount: decimal.RequireFromString(amount), Currency: currency}
}

func TestBuildGraphMergesDuplicateEdges(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("alice", "bob", "5.50", "USD"),
		debt("alice", "bob", "3", "EUR"),
	})
	require.NoError(t, err)

	require.Len(t, g.Debts, 2)
	assert.Equal(t, "3", g.Debts[0].Amount.String())
	assert.Equal(t, "EUR", g.Debts[0].Currency)
	assert.Equal(t, "15.5", g.Debts[1].Amount.String())
	assert.Equal(t, "USD", g.Debts[1].Currency)
	assert.Equal(t, []string{"alice", "bob"}, g.Participants)
}

func TestBuildGraphDropsNonPositiveAmounts(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("bob", "carol", "0", "USD"),
		debt("carol", "alice", "-4", "USD"),
	})
	require.NoError(t, err)
	require.Len(t, g.Debts, 1)
	assert.Equal(t, "alice", g.Debts[0].From)
}

func TestBuildGraphRejectsSelfDebt(t *testing.T) {
	_, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("bob", "bob", "5", "USD"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDebt)
}

func TestBuildGraphDeterministicOrdering(t *testing.T) {
	a, err := BuildGraph([]domain.Debt{
		debt("carol", "alice", "1", "USD"),
		debt("alice", "bob", "2", "USD"),
		debt("bob", "carol", "3", "USD"),
	})
	require.NoError(t, err)

	b, err := BuildGraph([]domain.Debt{
		debt("bob", "carol", "3", "USD"),
		debt("carol", "alice", "1", "USD"),
		debt("alice", "bob", "2", "USD"),
	})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestComputeBalances(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "carol", "30", "USD"),
		debt("bob", "carol", "20", "USD"),
	})
	require.NoError(t, err)

	balances, err := ComputeBalances(g)
	require.NoError(t, err)

	assert.Equal(t, "-30", balances["alice"].String())
	assert.Equal(t, "-20", balances["bob"].String())
	assert.Equal(t, "50", balances["carol"].String())
	assert.True(t, balances.Sum().IsZero())
}

func TestComputeBalancesRejectsMixedCurrencies(t *testing.T) {
	g, err := BuildGraph([]domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("bob", "carol", "10", "EUR"),
	})
	require.NoError(t, err)

	_, err = ComputeBalances(g)
	assert.ErrorIs(t, err, domain.ErrMixedCurrencies)
}
