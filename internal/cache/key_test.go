package cache

import (
	"testing"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func debt(from, to, amount, currency string) domain.Debt {
	return domain.Debt{From: from, To: to, Amount: decimal.RequireFromString(amount), Currency: currency}
}

func TestKeyIndependentOfEdgeOrder(t *testing.T) {
	a := []domain.Debt{
		debt("alice", "bob", "10", "USD"),
		debt("bob", "carol", "20", "USD"),
	}
	b := []domain.Debt{
		debt("bob", "carol", "20", "USD"),
		debt("alice", "bob", "10", "USD"),
	}

	assert.Equal(t,
		Key(domain.StrategyGreedy, a, nil),
		Key(domain.StrategyGreedy, b, nil),
	)
}

func TestKeyVariesWithContent(t *testing.T) {
	debts := []domain.Debt{debt("alice", "bob", "10", "USD")}

	base := Key(domain.StrategyGreedy, debts, nil)

	assert.NotEqual(t, base, Key(domain.StrategyMinCashFlow, debts, nil), "strategy is part of the key")
	assert.NotEqual(t, base, Key(domain.StrategyGreedy, []domain.Debt{debt("alice", "bob", "11", "USD")}, nil))
	assert.NotEqual(t, base, Key(domain.StrategyGreedy, []domain.Debt{debt("alice", "bob", "10", "EUR")}, nil))
}

func TestKeyFriendshipsOnlyForFriendPreference(t *testing.T) {
	debts := []domain.Debt{debt("alice", "bob", "10", "USD")}
	friendships := domain.FriendshipStrengths{domain.PairKey("alice", "bob"): 0.5}

	// Greedy ignores friendship data, so it must not perturb the key.
	assert.Equal(t,
		Key(domain.StrategyGreedy, debts, nil),
		Key(domain.StrategyGreedy, debts, friendships),
	)

	// Friend-preference reads it, so it must.
	assert.NotEqual(t,
		Key(domain.StrategyFriendPreference, debts, nil),
		Key(domain.StrategyFriendPreference, debts, friendships),
	)
}
