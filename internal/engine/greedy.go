package engine

import "github.com/oweme/settleup/internal/domain"

// greedySettle pairs the largest debtor with the largest creditor until both
// lists are exhausted. Both groups are sorted once up front, so the result
// contains at most n-1 transactions for n participants with nonzero balance.
func greedySettle(balances domain.Balance, currency string) []domain.Settlement {
	debtors, creditors := partition(balances)
	sortByAmountDesc(debtors)
	sortByAmountDesc(creditors)

	var settlements []domain.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := minDecimal(debtors[i].amount, creditors[j].amount)
		if !domain.NearZero(amount) {
			settlements = append(settlements, domain.Settlement{
				From:     debtors[i].id,
				To:       creditors[j].id,
				Amount:   amount,
				Currency: currency,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if domain.NearZero(debtors[i].amount) {
			i++
		}
		if domain.NearZero(creditors[j].amount) {
			j++
		}
	}
	return settlements
}
