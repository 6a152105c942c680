package engine

import (
	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// minCashFlowSettle recursively settles the current maximum debtor against
// the current maximum creditor, re-scanning the working balances at every
// step instead of pre-sorting once. Intermediate pairings differ from the
// greedy variant but the transaction-count bound and the replay invariant
// are the same. The base case tolerates Epsilon of rounding residue rather
// than requiring exact zero, which would otherwise never terminate.
func minCashFlowSettle(balances domain.Balance, currency string) []domain.Settlement {
	working := make(domain.Balance, len(balances))
	for id, b := range balances {
		working[id] = b
	}
	return settleMaxPair(working, currency)
}

func settleMaxPair(working domain.Balance, currency string) []domain.Settlement {
	debtor, creditor := maxDebtor(working), maxCreditor(working)
	if debtor == "" || creditor == "" {
		return nil
	}

	amount := minDecimal(working[debtor].Neg(), working[creditor])
	if domain.NearZero(amount) {
		return nil
	}

	working[debtor] = working[debtor].Add(amount)
	working[creditor] = working[creditor].Sub(amount)

	settlement := domain.Settlement{From: debtor, To: creditor, Amount: amount, Currency: currency}
	return append([]domain.Settlement{settlement}, settleMaxPair(working, currency)...)
}

// maxDebtor returns the participant with the most negative balance beyond
// Epsilon, ties broken by id ascending. Empty string when none remain.
func maxDebtor(working domain.Balance) string {
	best := ""
	bestAmount := decimal.Zero
	for id, b := range working {
		if !b.IsNegative() || domain.NearZero(b) {
			continue
		}
		if best == "" || b.LessThan(bestAmount) || (b.Equal(bestAmount) && id < best) {
			best, bestAmount = id, b
		}
	}
	return best
}

// maxCreditor returns the participant with the largest positive balance
// beyond Epsilon, ties broken by id ascending. Empty string when none remain.
func maxCreditor(working domain.Balance) string {
	best := ""
	bestAmount := decimal.Zero
	for id, b := range working {
		if !b.IsPositive() || domain.NearZero(b) {
			continue
		}
		if best == "" || b.GreaterThan(bestAmount) || (b.Equal(bestAmount) && id < best) {
			best, bestAmount = id, b
		}
	}
	return best
}
