package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fastprodman/spinwallet/internal/services/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// LedgerService is the part of ledger.Service the HTTP layer drives.
type LedgerService interface {
	OpenAccount(ctx context.Context, userID uint64) (ledger.Wallet, error)
	Wallets(ctx context.Context, userID uint64) ([]ledger.Wallet, error)
	WalletTransactions(ctx context.Context, userID uint64, walletID int64) ([]ledger.Transaction, error)
	Settlements(ctx context.Context, userID uint64) ([]ledger.Settlement, error)
	Audit(ctx context.Context, userID uint64) ([]ledger.WalletAudit, error)
	Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (ledger.DepositResult, error)
	Login(ctx context.Context, userID uint64) error
	PlayBet(ctx context.Context, userID uint64, outcome ledger.Outcome, amount decimal.Decimal) (ledger.BetResult, error)
	PlayRandom(ctx context.Context, userID uint64) (ledger.BetResult, error)
	GrantBonus(ctx context.Context, userID uint64, tag ledger.BonusTag, amount decimal.Decimal) (ledger.BonusGrant, error)
	SettleWagering(ctx context.Context, userID uint64) ([]ledger.Settlement, error)
}

var _ LedgerService = (*ledger.Service)(nil)

// HandlerProvider wraps a LedgerService and exposes HTTP handlers.
type HandlerProvider struct {
	svc LedgerService
}

func NewHandler(svc LedgerService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps ledger errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, ledger.ErrUserExists):
		writeError(w, http.StatusConflict, "user already exists")
	case errors.Is(err, ledger.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ledger.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidOutcome),
		errors.Is(err, ledger.ErrInvalidBonusTag):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET  /user/{userId}/wallets
//	POST /user/{userId}/play
func parseUserIDFromPath(r *http.Request) (uint64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseUint(idStr, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

func parseWalletIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "walletId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid walletId")
	}

	return id, nil
}

// parseAmount accepts a positive decimal string with up to 2 fractional digits.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount required")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("amount supports up to 2 decimals")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be > 0")
	}

	return amount, nil
}

// decodeBody limits the body size and rejects unknown fields. An empty body
// leaves dst untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	//nolint:errcheck
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}

			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}

func userIDOrBadRequest(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return 0, false
	}

	return userID, true
}

// --- Handlers ---

// OpenAccountHandler handles POST /user/{userId}
func (h *HandlerProvider) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	wallet, err := h.svc.OpenAccount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWalletResponse(wallet))
}

// WalletsHandler handles GET /user/{userId}/wallets
func (h *HandlerProvider) WalletsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	ws, err := h.svc.Wallets(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboard(userID, ws))
}

// WalletTransactionsHandler handles GET /user/{userId}/wallets/{walletId}/transactions
func (h *HandlerProvider) WalletTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	walletID, err := parseWalletIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid walletId in path")
		return
	}

	ts, err := h.svc.WalletTransactions(r.Context(), userID, walletID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"walletId": walletID, "transactions": out})
}

// SettlementsHandler handles GET /user/{userId}/settlements
func (h *HandlerProvider) SettlementsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	sts, err := h.svc.Settlements(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": toSettlementResponses(sts)})
}

// AuditHandler handles GET /user/{userId}/audit
func (h *HandlerProvider) AuditHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	audits, err := h.svc.Audit(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]auditResponse, 0, len(audits))
	consistent := true

	for _, a := range audits {
		out = append(out, auditResponse{
			Wallet:     toWalletResponse(a.Wallet),
			LedgerSum:  a.LedgerSum.StringFixed(2),
			Consistent: a.Consistent(),
		})
		consistent = consistent && a.Consistent()
	}

	writeJSON(w, http.StatusOK, map[string]any{"consistent": consistent, "wallets": out})
}

type amountRequest struct {
	Amount string `json:"amount"`
}

// DepositHandler handles POST /user/{userId}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var req amountRequest

	err := decodeBody(w, r, &req, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Deposit(r.Context(), userID, amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := depositResponse{Transaction: toTransactionResponse(res.Transaction)}
	if res.Bonus != nil {
		b := toBonusResponse(*res.Bonus)
		resp.Bonus = &b
	}

	writeJSON(w, http.StatusOK, resp)
}

// LoginHandler handles POST /user/{userId}/login
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	err := h.svc.Login(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type playRequest struct {
	Outcome string `json:"outcome"`
	Amount  string `json:"amount"`
}

// PlayHandler handles POST /user/{userId}/play. Without an outcome the
// default bet is played with a random outcome.
func (h *HandlerProvider) PlayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var req playRequest

	err := decodeBody(w, r, &req, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var res ledger.BetResult

	outcome := strings.ToLower(strings.TrimSpace(req.Outcome))

	switch {
	case outcome == "" && strings.TrimSpace(req.Amount) == "":
		res, err = h.svc.PlayRandom(r.Context(), userID)
	case outcome == "":
		writeError(w, http.StatusBadRequest, "outcome required with amount")
		return
	default:
		amount, perr := parseAmount(req.Amount)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}

		res, err = h.svc.PlayBet(r.Context(), userID, ledger.Outcome(outcome), amount)
	}

	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, betResponse{
		Outcome:     string(res.Outcome),
		GameID:      res.Game.ID,
		Transaction: toTransactionResponse(res.Transaction),
	})
}

type bonusRequest struct {
	Tag    string `json:"tag"`
	Amount string `json:"amount"`
}

// BonusHandler handles POST /user/{userId}/bonus
func (h *HandlerProvider) BonusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var req bonusRequest

	err := decodeBody(w, r, &req, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := h.svc.GrantBonus(r.Context(), userID, ledger.BonusTag(strings.TrimSpace(req.Tag)), amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBonusResponse(grant))
}

// SettleHandler handles POST /user/{userId}/settle
func (h *HandlerProvider) SettleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrBadRequest(w, r)
	if !ok {
		return
	}

	sts, err := h.svc.SettleWagering(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": toSettlementResponses(sts)})
}
