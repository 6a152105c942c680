package engine

import (
	"fmt"
	"sort"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildGraph turns a flat list of raw debt records into a normalized graph.
// Duplicate (from, to, currency) edges are merged by summation and
// non-positive amounts are dropped. A self-debt is always a data error and
// fails the whole build rather than being silently skipped.
func BuildGraph(debts []domain.Debt) (domain.DebtGraph, error) {
	type edgeKey struct {
		from, to, currency string
	}

	merged := make(map[edgeKey]decimal.Decimal)
	for _, d := range debts {
		if d.From == d.To {
			return domain.DebtGraph{}, fmt.Errorf("%w: self-debt for participant %s", domain.ErrInvalidDebt, d.From)
		}
		if !d.Amount.IsPositive() {
			continue
		}
		k := edgeKey{from: d.From, to: d.To, currency: d.Currency}
		merged[k] = merged[k].Add(d.Amount)
	}

	edges := make([]domain.Debt, 0, len(merged))
	for k, amount := range merged {
		edges = append(edges, domain.Debt{From: k.from, To: k.to, Amount: amount, Currency: k.currency})
	}
	sortDebts(edges)

	return domain.NewDebtGraph(edges), nil
}

// sortDebts orders edges canonically by (from, to, currency) so graph
// construction is deterministic regardless of input ordering.
func sortDebts(debts []domain.Debt) {
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].From != debts[j].From {
			return debts[i].From < debts[j].From
		}
		if debts[i].To != debts[j].To {
			return debts[i].To < debts[j].To
		}
		return debts[i].Currency < debts[j].Currency
	})
}
