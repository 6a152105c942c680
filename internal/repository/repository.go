package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oweme/settleup/internal/domain"
	"github.com/oweme/settleup/internal/models"
	"github.com/shopspring/decimal"
)

// Repository is the read-only persistence collaborator: it supplies raw
// debt records, friendship strengths, and exchange-rate snapshots. Writing
// settlement records belongs to the surrounding service.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListGroupDebts returns the unsettled pairwise debts for a group.
func (r *Repository) ListGroupDebts(ctx context.Context, groupID uuid.UUID) ([]models.DebtRecord, error) {
	query := `
		SELECT id, group_id, from_user_id, to_user_id, amount::text, currency, created_at
		FROM debts
		WHERE group_id = $1 AND settled_at IS NULL
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group debts: %w", err)
	}
	defer rows.Close()

	var records []models.DebtRecord
	for rows.Next() {
		var rec models.DebtRecord
		var amount string
		if err := rows.Scan(&rec.ID, &rec.GroupID, &rec.FromUserID, &rec.ToUserID, &amount, &rec.Currency, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt record: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse debt amount %q: %w", amount, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetFriendshipStrengths returns the affinity scores for every participant
// pair in a group that has one.
func (r *Repository) GetFriendshipStrengths(ctx context.Context, groupID uuid.UUID) (domain.FriendshipStrengths, error) {
	query := `
		SELECT user_a, user_b, strength
		FROM friendship_strengths
		WHERE group_id = $1
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship strengths: %w", err)
	}
	defer rows.Close()

	strengths := make(domain.FriendshipStrengths)
	for rows.Next() {
		var a, b string
		var strength float64
		if err := rows.Scan(&a, &b, &strength); err != nil {
			return nil, fmt.Errorf("failed to scan friendship strength: %w", err)
		}
		strengths[domain.PairKey(a, b)] = strength
	}
	return strengths, rows.Err()
}

// GetExchangeRates returns the latest rate snapshot relative to the given
// reference currency. The snapshot is immutable for the lifetime of one
// computation.
func (r *Repository) GetExchangeRates(ctx context.Context, reference string) (domain.RateTable, error) {
	query := `
		SELECT DISTINCT ON (currency) currency, rate::text
		FROM exchange_rates
		ORDER BY currency, captured_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	defer rows.Close()

	table := domain.RateTable{Reference: reference, Rates: make(map[string]decimal.Decimal)}
	for rows.Next() {
		var currency, rate string
		if err := rows.Scan(&currency, &rate); err != nil {
			return domain.RateTable{}, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		table.Rates[currency], err = decimal.NewFromString(rate)
		if err != nil {
			return domain.RateTable{}, fmt.Errorf("failed to parse rate for %s: %w", currency, err)
		}
	}
	return table, rows.Err()
}

// GetPreferredCurrencies returns each group member's preferred settlement
// currency, used for the optional re-denomination step.
func (r *Repository) GetPreferredCurrencies(ctx context.Context, groupID uuid.UUID) (map[string]string, error) {
	query := `
		SELECT user_id, preferred_currency
		FROM group_members
		WHERE group_id = $1 AND preferred_currency IS NOT NULL
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferred currencies: %w", err)
	}
	defer rows.Close()

	preferred := make(map[string]string)
	for rows.Next() {
		var userID, currency string
		if err := rows.Scan(&userID, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan preferred currency: %w", err)
		}
		preferred[userID] = currency
	}
	return preferred, rows.Err()
}

// ListActiveGroups returns groups with debt activity since the cutoff, used
// by the precompute worker to decide which caches to warm.
func (r *Repository) ListActiveGroups(ctx context.Context, since time.Time, limit int32) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT group_id
		FROM debts
		WHERE created_at >= $1 AND settled_at IS NULL
		ORDER BY group_id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active groups: %w", err)
	}
	defer rows.Close()

	var groups []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		groups = append(groups, id)
	}
	return groups, rows.Err()
}
