package engine

import (
	"fmt"
	"sort"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// Normalize converts a multi-currency graph into a single-currency graph
// using the supplied exchange-rate snapshot. Every currency is validated
// against the table before any amount is touched, so a missing rate fails
// fast instead of partway through. Amounts are rounded half-even to
// minor-unit precision; edges that land on the same (from, to) pair after
// conversion are merged again.
func Normalize(g domain.DebtGraph, table domain.RateTable) (domain.DebtGraph, error) {
	rates, err := rateSet(g.Debts, table)
	if err != nil {
		return domain.DebtGraph{}, err
	}

	type pairKey struct{ from, to string }
	merged := make(map[pairKey]decimal.Decimal, len(g.Debts))
	for _, d := range g.Debts {
		converted := domain.RoundMinor(d.Amount.Mul(rates[d.Currency]))
		if !converted.IsPositive() {
			continue
		}
		k := pairKey{from: d.From, to: d.To}
		merged[k] = merged[k].Add(converted)
	}

	edges := make([]domain.Debt, 0, len(merged))
	for k, amount := range merged {
		edges = append(edges, domain.Debt{From: k.from, To: k.to, Amount: amount, Currency: table.Reference})
	}
	sortDebts(edges)

	out := domain.NewDebtGraph(edges)
	out.Participants = append([]string(nil), g.Participants...)
	return out, nil
}

// Redenominate converts computed settlements from the reference currency
// into a per-transaction currency, here the payer's preferred one. This is
// purely presentational: which pairs settle never changes, only the
// displayed amount and currency.
func Redenominate(settlements []domain.Settlement, table domain.RateTable, preferred map[string]string) ([]domain.Settlement, error) {
	out := make([]domain.Settlement, 0, len(settlements))
	for _, s := range settlements {
		target := preferred[s.From]
		if target == "" || target == table.Reference {
			out = append(out, s)
			continue
		}
		rate, err := table.Rate(target)
		if err != nil {
			return nil, fmt.Errorf("redenominate %s->%s: %w", s.From, s.To, err)
		}
		converted := s
		converted.Amount = domain.RoundMinor(s.Amount.Div(rate))
		converted.Currency = target
		out = append(out, converted)
	}
	return out, nil
}

// rateSet resolves the conversion factor for every distinct currency in the
// debt list up front.
func rateSet(debts []domain.Debt, table domain.RateTable) (map[string]decimal.Decimal, error) {
	currencies := make(map[string]struct{})
	for _, d := range debts {
		currencies[d.Currency] = struct{}{}
	}

	ordered := make([]string, 0, len(currencies))
	for c := range currencies {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	rates := make(map[string]decimal.Decimal, len(ordered))
	for _, c := range ordered {
		rate, err := table.Rate(c)
		if err != nil {
			return nil, err
		}
		rates[c] = rate
	}
	return rates, nil
}
