package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oweme/settleup/internal/domain"
	"github.com/oweme/settleup/internal/models"
	"github.com/oweme/settleup/internal/repository"
	"github.com/oweme/settleup/internal/service"
	"github.com/shopspring/decimal"
)

// SettlementHandler exposes the optimization engine over HTTP.
type SettlementHandler struct {
	svc         *service.SettlementService
	repo        *repository.Repository
	refCurrency string
}

func NewSettlementHandler(svc *service.SettlementService, repo *repository.Repository, refCurrency string) *SettlementHandler {
	return &SettlementHandler{svc: svc, repo: repo, refCurrency: refCurrency}
}

type debtInput struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type friendshipInput struct {
	UserA    string  `json:"user_a"`
	UserB    string  `json:"user_b"`
	Strength float64 `json:"strength"`
}

type previewRequest struct {
	Debts               []debtInput                `json:"debts"`
	Strategy            string                     `json:"strategy"`
	ReferenceCurrency   string                     `json:"reference_currency"`
	ExchangeRates       map[string]decimal.Decimal `json:"exchange_rates"`
	Friendships         []friendshipInput          `json:"friendships"`
	PreferredCurrencies map[string]string          `json:"preferred_currencies"`
}

type settlementsResponse struct {
	Strategy    domain.Strategy     `json:"strategy"`
	Settlements []domain.Settlement `json:"settlements"`
}

// Preview computes settlements for debts supplied inline, without touching
// the store. Useful for "what if" views before debts are persisted.
func (h *SettlementHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-request", "invalid request body")
		return
	}
	if len(req.Debts) == 0 {
		RespondError(w, r, http.StatusBadRequest, "invalid-request", "debts is required")
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-strategy", err.Error())
		return
	}

	debts := make([]domain.Debt, 0, len(req.Debts))
	for _, d := range req.Debts {
		debts = append(debts, domain.Debt{From: d.From, To: d.To, Amount: d.Amount, Currency: d.Currency})
	}

	table := h.rateTable(req.ReferenceCurrency, req.ExchangeRates, debts)

	friendships := make(domain.FriendshipStrengths, len(req.Friendships))
	for _, f := range req.Friendships {
		friendships[domain.PairKey(f.UserA, f.UserB)] = f.Strength
	}

	settlements, err := h.svc.Compute(r.Context(), service.ComputeInput{
		Debts:               debts,
		Strategy:            strategy,
		Rates:               table,
		Friendships:         friendships,
		PreferredCurrencies: req.PreferredCurrencies,
	})
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, settlementsResponse{Strategy: strategy, Settlements: emptyIfNil(settlements)})
}

// GroupSettlements computes the settlement plan for a stored group.
func (h *SettlementHandler) GroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-request", "invalid group id")
		return
	}

	strategy, err := domain.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-strategy", err.Error())
		return
	}

	in, err := h.loadComputeInput(r.Context(), groupID, strategy, r.URL.Query().Get("currency"))
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	if r.URL.Query().Get("redenominate") == "true" {
		preferred, err := h.repo.GetPreferredCurrencies(r.Context(), groupID)
		if err != nil {
			h.respondComputeError(w, r, err)
			return
		}
		in.PreferredCurrencies = preferred
	}

	settlements, err := h.svc.Compute(r.Context(), in)
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	proposals := make([]models.SettlementProposal, 0, len(settlements))
	for _, s := range settlements {
		proposals = append(proposals, models.SettlementProposal{
			GroupID:       groupID,
			From:          s.From,
			To:            s.To,
			Amount:        s.Amount,
			Currency:      s.Currency,
			Status:        models.SettlementStatusPending,
			PaymentStatus: models.PaymentStatusPending,
		})
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"group_id":  groupID,
		"strategy":  strategy,
		"proposals": proposals,
	})
}

// ExplainGroupSettlements returns the network-graph, flow-diagram, and
// narrative projections for a group's settlement plan. Read-only.
func (h *SettlementHandler) ExplainGroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-request", "invalid group id")
		return
	}

	strategy, err := domain.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-strategy", err.Error())
		return
	}

	in, err := h.loadComputeInput(r.Context(), groupID, strategy, r.URL.Query().Get("currency"))
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	settlements, err := h.svc.Compute(r.Context(), in)
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	explanation, err := h.svc.Explain(r.Context(), service.ExplainInput{
		Debts:       in.Debts,
		Settlements: settlements,
		Strategy:    strategy,
		Rates:       in.Rates,
	})
	if err != nil {
		h.respondComputeError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, explanation)
}

func (h *SettlementHandler) loadComputeInput(ctx context.Context, groupID uuid.UUID, strategy domain.Strategy, currencyOverride string) (service.ComputeInput, error) {
	records, err := h.repo.ListGroupDebts(ctx, groupID)
	if err != nil {
		return service.ComputeInput{}, err
	}

	debts := make([]domain.Debt, 0, len(records))
	for _, rec := range records {
		debts = append(debts, domain.Debt{From: rec.FromUserID, To: rec.ToUserID, Amount: rec.Amount, Currency: rec.Currency})
	}

	reference := h.refCurrency
	if currencyOverride != "" {
		reference = currencyOverride
	}
	rates, err := h.repo.GetExchangeRates(ctx, reference)
	if err != nil {
		return service.ComputeInput{}, err
	}

	in := service.ComputeInput{Debts: debts, Strategy: strategy, Rates: rates}
	if strategy == domain.StrategyFriendPreference {
		in.Friendships, err = h.repo.GetFriendshipStrengths(ctx, groupID)
		if err != nil {
			return service.ComputeInput{}, err
		}
	}
	return in, nil
}

// rateTable builds the snapshot used for a preview request. When the caller
// supplies no rates, debts are assumed to already share one currency and an
// identity table is used; a mixed-currency input then fails with the
// engine's unknown-currency error instead of being silently converted.
func (h *SettlementHandler) rateTable(reference string, rates map[string]decimal.Decimal, debts []domain.Debt) domain.RateTable {
	if len(rates) > 0 {
		if reference == "" {
			reference = h.refCurrency
		}
		return domain.RateTable{Reference: reference, Rates: rates}
	}

	if reference == "" && len(debts) > 0 {
		reference = debts[0].Currency
	}
	if reference == "" {
		reference = h.refCurrency
	}
	return domain.RateTable{
		Reference: reference,
		Rates:     map[string]decimal.Decimal{reference: decimal.NewFromInt(1)},
	}
}

func (h *SettlementHandler) respondComputeError(w http.ResponseWriter, r *http.Request, err error) {
	if status, slug, ok := mapEngineError(err); ok {
		RespondError(w, r, status, slug, err.Error())
		return
	}
	if status, slug, msg, ok := mapDBError(err); ok {
		RespondError(w, r, status, slug, msg)
		return
	}
	RespondError(w, r, http.StatusInternalServerError, "internal-server-error", "settlement computation failed")
}

func emptyIfNil(settlements []domain.Settlement) []domain.Settlement {
	if settlements == nil {
		return []domain.Settlement{}
	}
	return settlements
}
