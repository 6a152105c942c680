package engine

import (
	"fmt"
	"sort"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// Optimize dispatches to one of the closed set of optimization strategies.
// Every strategy is deterministic for a given input and satisfies the replay
// invariant: applying the returned settlements to the input balances drives
// every participant to within Epsilon of zero.
//
// Balances that do not sum to (approximately) zero indicate a bug upstream
// in the builder or normalizer and fail with ErrUnbalancedGraph rather than
// producing an incorrect settlement.
func Optimize(strategy domain.Strategy, balances domain.Balance, currency string, friendships domain.FriendshipStrengths) ([]domain.Settlement, error) {
	if total := balances.Sum(); !domain.NearZero(total) {
		return nil, fmt.Errorf("%w: balances sum to %s", domain.ErrUnbalancedGraph, total)
	}

	switch strategy {
	case domain.StrategyGreedy:
		return greedySettle(balances, currency), nil
	case domain.StrategyMinCashFlow:
		return minCashFlowSettle(balances, currency), nil
	case domain.StrategyFriendPreference:
		return friendPreferenceSettle(balances, currency, friendships), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStrategy, strategy)
	}
}

// party is one side of a pairing: a debtor or creditor with the magnitude
// still outstanding (always positive).
type party struct {
	id     string
	amount decimal.Decimal
}

// partition splits balances into debtors and creditors, both holding
// positive magnitudes. Participants already within Epsilon of zero are
// excluded.
func partition(balances domain.Balance) (debtors, creditors []party) {
	for id, b := range balances {
		switch {
		case domain.NearZero(b):
		case b.IsNegative():
			debtors = append(debtors, party{id: id, amount: b.Neg()})
		default:
			creditors = append(creditors, party{id: id, amount: b})
		}
	}
	return debtors, creditors
}

// sortByAmountDesc orders parties by amount descending, breaking ties by
// participant id ascending for determinism.
func sortByAmountDesc(parties []party) {
	sort.Slice(parties, func(i, j int) bool {
		if !parties[i].amount.Equal(parties[j].amount) {
			return parties[i].amount.GreaterThan(parties[j].amount)
		}
		return parties[i].id < parties[j].id
	})
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
