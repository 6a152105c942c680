package engine

import (
	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// friendPreferenceSettle scores every candidate debtor/creditor pairing by
// the settleable amount weighted by friendship strength and settles the
// highest-scoring pairing first. This can produce more transactions than
// the greedy variant, in exchange for payments between participants who
// already have a direct relationship.
//
// The amount-times-affinity formula is a policy choice, not a hard
// requirement; missing affinity scores zero and falls back to the greedy
// tie-break (amount descending, then ids ascending), never an error.
func friendPreferenceSettle(balances domain.Balance, currency string, friendships domain.FriendshipStrengths) []domain.Settlement {
	debtors, creditors := partition(balances)
	sortByAmountDesc(debtors)
	sortByAmountDesc(creditors)

	var settlements []domain.Settlement
	for {
		di, ci := bestPairing(debtors, creditors, friendships)
		if di < 0 {
			break
		}

		amount := minDecimal(debtors[di].amount, creditors[ci].amount)
		settlements = append(settlements, domain.Settlement{
			From:     debtors[di].id,
			To:       creditors[ci].id,
			Amount:   amount,
			Currency: currency,
		})

		debtors[di].amount = debtors[di].amount.Sub(amount)
		creditors[ci].amount = creditors[ci].amount.Sub(amount)

		if domain.NearZero(debtors[di].amount) {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
		if domain.NearZero(creditors[ci].amount) {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
	}
	return settlements
}

// bestPairing returns the indexes of the debtor/creditor pair with the
// highest score, or (-1, -1) when nothing remains to settle. Ties fall back
// to the larger settleable amount, then to (debtor id, creditor id)
// ascending.
func bestPairing(debtors, creditors []party, friendships domain.FriendshipStrengths) (int, int) {
	bestD, bestC := -1, -1
	bestScore := decimal.Zero
	bestAmount := decimal.Zero

	for di, d := range debtors {
		for ci, c := range creditors {
			amount := minDecimal(d.amount, c.amount)
			if domain.NearZero(amount) {
				continue
			}
			affinity := decimal.NewFromFloat(friendships.Strength(d.id, c.id))
			score := amount.Mul(affinity)

			better := false
			switch {
			case bestD < 0:
				better = true
			case !score.Equal(bestScore):
				better = score.GreaterThan(bestScore)
			case !amount.Equal(bestAmount):
				better = amount.GreaterThan(bestAmount)
			case d.id != debtors[bestD].id:
				better = d.id < debtors[bestD].id
			default:
				better = c.id < creditors[bestC].id
			}
			if better {
				bestD, bestC = di, ci
				bestScore, bestAmount = score, amount
			}
		}
	}
	return bestD, bestC
}
