package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oweme/settleup/internal/api/problem"
	"github.com/oweme/settleup/internal/domain"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an RFC 7807 error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// mapEngineError translates engine error taxonomy into HTTP responses.
// Invalid input is the caller's fault; an unbalanced graph means upstream
// data corruption and is surfaced as a server error, never corrected.
func mapEngineError(err error) (status int, problemType string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidDebt):
		return http.StatusBadRequest, "invalid-debt", true
	case errors.Is(err, domain.ErrInvalidStrategy):
		return http.StatusBadRequest, "invalid-strategy", true
	case errors.Is(err, domain.ErrUnknownCurrency):
		return http.StatusBadRequest, "unknown-currency", true
	case errors.Is(err, domain.ErrUnbalancedGraph), errors.Is(err, domain.ErrMixedCurrencies):
		return http.StatusInternalServerError, "unbalanced-graph", true
	default:
		return 0, "", false
	}
}

func mapDBError(err error) (status int, problemType, message string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0, "", "", false
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return http.StatusConflict, "db/unique-violation", "resource already exists", true
	case "23503": // foreign_key_violation
		return http.StatusBadRequest, "db/foreign-key-violation", "invalid reference", true
	default:
		return 0, "", "", false
	}
}
