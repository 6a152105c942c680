package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/oweme/settleup/internal/domain"
)

// Key builds a stable content hash for one optimization request. Edges are
// sorted canonically before hashing so the key is independent of input
// ordering; friendship data participates only when the strategy actually
// reads it.
func Key(strategy domain.Strategy, debts []domain.Debt, friendships domain.FriendshipStrengths) string {
	lines := make([]string, 0, len(debts)+len(friendships)+1)
	lines = append(lines, "strategy="+string(strategy))

	edges := make([]string, 0, len(debts))
	for _, d := range debts {
		edges = append(edges, strings.Join([]string{d.From, d.To, d.Amount.String(), d.Currency}, "|"))
	}
	sort.Strings(edges)
	lines = append(lines, edges...)

	if strategy == domain.StrategyFriendPreference {
		pairs := make([]string, 0, len(friendships))
		for pair, strength := range friendships {
			// Affinity is bounded [0,1]; four decimals keeps the key
			// stable across float formatting quirks.
			pairs = append(pairs, pair+"="+strconv.FormatFloat(strength, 'f', 4, 64))
		}
		sort.Strings(pairs)
		lines = append(lines, pairs...)
	}

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
