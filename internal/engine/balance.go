package engine

import (
	"fmt"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeBalances reduces a single-currency graph to one signed net balance
// per participant: negative owes, positive is owed. Pure reduction, no side
// effects; the only error is a currency mismatch, which means the graph was
// never normalized.
func ComputeBalances(g domain.DebtGraph) (domain.Balance, error) {
	balances := make(domain.Balance, len(g.Participants))
	for _, p := range g.Participants {
		balances[p] = decimal.Zero
	}

	currency := ""
	for _, d := range g.Debts {
		if currency == "" {
			currency = d.Currency
		} else if d.Currency != currency {
			return nil, fmt.Errorf("%w: %s and %s", domain.ErrMixedCurrencies, currency, d.Currency)
		}
		balances[d.From] = balances[d.From].Sub(d.Amount)
		balances[d.To] = balances[d.To].Add(d.Amount)
	}
	return balances, nil
}
