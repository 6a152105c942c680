package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Debt is a directed weighted edge: From owes To the given amount.
// Immutable once built into a graph.
type Debt struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // ISO 4217
}

// Settlement is one payment instruction produced by an optimization strategy.
type Settlement struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Balance maps a participant to a signed net amount.
// Negative means the participant owes money, positive means they are owed.
type Balance map[string]decimal.Decimal

// DebtGraph is the normalized form the engine operates on.
// Simplification steps produce a new graph rather than mutating in place.
type DebtGraph struct {
	Participants []string
	Debts        []Debt
}

// NewDebtGraph builds a graph from a debt list, deriving the participant set
// from the edge endpoints.
func NewDebtGraph(debts []Debt) DebtGraph {
	seen := make(map[string]struct{}, len(debts)*2)
	var participants []string
	for _, d := range debts {
		for _, p := range []string{d.From, d.To} {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				participants = append(participants, p)
			}
		}
	}
	sort.Strings(participants)
	return DebtGraph{Participants: participants, Debts: debts}
}

// Strategy identifies one of the closed set of optimization strategies.
type Strategy string

const (
	StrategyGreedy           Strategy = "greedy"
	StrategyMinCashFlow      Strategy = "minCashFlow"
	StrategyFriendPreference Strategy = "friendPreference"
)

// ParseStrategy validates a strategy name coming from a caller.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyGreedy, StrategyMinCashFlow, StrategyFriendPreference:
		return Strategy(s), nil
	case "":
		return StrategyGreedy, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidStrategy, s)
	}
}

// FriendshipStrengths maps an unordered participant pair to an affinity score
// in [0, 1]. Missing pairs score zero.
type FriendshipStrengths map[string]float64

// PairKey builds the canonical key for an unordered participant pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Strength returns the affinity for a pair, zero when unknown.
func (f FriendshipStrengths) Strength(a, b string) float64 {
	if f == nil {
		return 0
	}
	return f[PairKey(a, b)]
}

// RateTable is an immutable exchange-rate snapshot for one computation.
// Rates are expressed relative to a common base, so converting currency c to
// the reference multiplies by Rates[c] / Rates[Reference].
type RateTable struct {
	Reference string
	Rates     map[string]decimal.Decimal
}

// Rate returns the conversion factor from the given currency into the
// table's reference currency.
func (t RateTable) Rate(currency string) (decimal.Decimal, error) {
	refRate, ok := t.Rates[t.Reference]
	if !ok || refRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: reference currency %s", ErrUnknownCurrency, t.Reference)
	}
	rate, ok := t.Rates[currency]
	if !ok || rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return rate.Div(refRate), nil
}
