package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(svc LedgerService) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/user/{userId}", func(r chi.Router) {
		r.Post("/", h.OpenAccountHandler)

		r.Get("/wallets", h.WalletsHandler)
		r.Get("/wallets/{walletId}/transactions", h.WalletTransactionsHandler)
		r.Get("/settlements", h.SettlementsHandler)
		r.Get("/audit", h.AuditHandler)

		r.Post("/deposit", h.DepositHandler)
		r.Post("/login", h.LoginHandler)
		r.Post("/play", h.PlayHandler)
		r.Post("/bonus", h.BonusHandler)
		r.Post("/settle", h.SettleHandler)
	})

	return r
}
