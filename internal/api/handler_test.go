package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oweme/settleup/internal/api"
	"github.com/oweme/settleup/internal/cache"
	"github.com/oweme/settleup/internal/config"
	"github.com/oweme/settleup/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAPI() http.Handler {
	cfg := &config.Config{
		HTTPPort:           "0",
		ReferenceCurrency:  "USD",
		CacheTTL:           time.Minute,
		PublicRateLimitRPS: 1000,
	}
	svc := service.NewSettlementService(cache.NewMemoryStore(cfg.CacheTTL))
	router := api.NewRouter(cfg, zap.NewNop(), nil, nil, svc, nil)
	return router.Routes()
}

func postPreview(t *testing.T, handler http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/settlements/preview", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPreviewComputesSettlements(t *testing.T) {
	handler := setupAPI()

	rec := postPreview(t, handler, map[string]interface{}{
		"debts": []map[string]interface{}{
			{"from": "alice", "to": "carol", "amount": "30", "currency": "USD"},
			{"from": "bob", "to": "carol", "amount": "20", "currency": "USD"},
		},
		"strategy": "greedy",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Strategy    string `json:"strategy"`
		Settlements []struct {
			From     string `json:"from"`
			To       string `json:"to"`
			Amount   string `json:"amount"`
			Currency string `json:"currency"`
		} `json:"settlements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "greedy", resp.Strategy)
	require.Len(t, resp.Settlements, 2)
	assert.Equal(t, "alice", resp.Settlements[0].From)
	assert.Equal(t, "carol", resp.Settlements[0].To)
	assert.Equal(t, "30", resp.Settlements[0].Amount)
}

func TestPreviewCycleReturnsEmptyList(t *testing.T) {
	handler := setupAPI()

	rec := postPreview(t, handler, map[string]interface{}{
		"debts": []map[string]interface{}{
			{"from": "alice", "to": "bob", "amount": "10", "currency": "USD"},
			{"from": "bob", "to": "carol", "amount": "10", "currency": "USD"},
			{"from": "carol", "to": "alice", "amount": "10", "currency": "USD"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Settlements []json.RawMessage `json:"settlements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Settlements)
}

func TestPreviewMultiCurrencyWithRates(t *testing.T) {
	handler := setupAPI()

	rec := postPreview(t, handler, map[string]interface{}{
		"debts": []map[string]interface{}{
			{"from": "alice", "to": "carol", "amount": "10", "currency": "EUR"},
			{"from": "bob", "to": "carol", "amount": "20", "currency": "USD"},
		},
		"reference_currency": "USD",
		"exchange_rates":     map[string]string{"USD": "1", "EUR": "1.10"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Settlements []struct {
			Amount   string `json:"amount"`
			Currency string `json:"currency"`
		} `json:"settlements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Settlements, 2)
	for _, s := range resp.Settlements {
		assert.Equal(t, "USD", s.Currency)
	}
}

func TestPreviewValidation(t *testing.T) {
	handler := setupAPI()

	cases := []struct {
		name string
		body map[string]interface{}
		slug string
	}{
		{
			name: "no_debts",
			body: map[string]interface{}{"strategy": "greedy"},
			slug: "invalid-request",
		},
		{
			name: "self_debt",
			body: map[string]interface{}{
				"debts": []map[string]interface{}{
					{"from": "alice", "to": "alice", "amount": "10", "currency": "USD"},
				},
			},
			slug: "invalid-debt",
		},
		{
			name: "unknown_strategy",
			body: map[string]interface{}{
				"debts": []map[string]interface{}{
					{"from": "alice", "to": "bob", "amount": "10", "currency": "USD"},
				},
				"strategy": "magic",
			},
			slug: "invalid-strategy",
		},
		{
			name: "missing_rate",
			body: map[string]interface{}{
				"debts": []map[string]interface{}{
					{"from": "alice", "to": "bob", "amount": "10", "currency": "EUR"},
					{"from": "bob", "to": "carol", "amount": "10", "currency": "USD"},
				},
				"exchange_rates": map[string]string{"USD": "1"},
				"reference_currency": "USD",
			},
			slug: "unknown-currency",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := postPreview(t, handler, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var details struct {
				Type string `json:"type"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
			assert.Contains(t, details.Type, tc.slug)
		})
	}
}

func TestHealthLive(t *testing.T) {
	handler := setupAPI()

	req := httptest.NewRequest(http.MethodGet, "/healthz/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenAPISpecServed(t *testing.T) {
	handler := setupAPI()

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Settleup Settlement Engine API")
}
