package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtRecord is a raw pairwise debt row as stored by the surrounding
// expense-sharing service.
type DebtRecord struct {
	ID         uuid.UUID       `json:"id"`
	GroupID    uuid.UUID       `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Settlement record lifecycle. The engine only produces the
// {from, to, amount, currency} triples; status transitions belong to the
// surrounding service. Status moves to completed only after payment status
// reaches completed; cancelled is terminal and reachable from pending only.
const (
	SettlementStatusPending   = "pending"
	SettlementStatusCompleted = "completed"
	SettlementStatusCancelled = "cancelled"

	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

// SettlementProposal is a computed settlement shaped as the record the
// surrounding service would persist when a user accepts it. The engine
// never writes these.
type SettlementProposal struct {
	GroupID       uuid.UUID       `json:"group_id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
}
