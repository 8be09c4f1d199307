package handlers

import (
	"net/http"
	"strings"

	"miningdash/internal/config"
	"miningdash/internal/db"
	"miningdash/internal/middleware"
	"miningdash/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	rigs         RigStore
	portfolio    PortfolioStore
	transactions TransactionStore
	exchanges    ExchangeStore
	payments     PaymentStore
	audit        AuditStore
	paymentSvc   PaymentService
	prices       PriceSource
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, rigs RigStore, portfolio PortfolioStore, transactions TransactionStore, exchanges ExchangeStore, payments PaymentStore, audit AuditStore, paymentSvc PaymentService, prices PriceSource, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		rigs:         rigs,
		portfolio:    portfolio,
		transactions: transactions,
		exchanges:    exchanges,
		payments:     payments,
		audit:        audit,
		paymentSvc:   paymentSvc,
		prices:       prices,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/ws", h.WS)

	router.Route("/api", func(r chi.Router) {
		r.Get("/prices", h.GetPrices)
		r.Post("/calculate-profitability", h.CalculateProfitability)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Get("/auth/user", h.Me)

			r.Get("/mining-rigs", h.ListRigs)
			r.Post("/mining-rigs", h.CreateRig)
			r.Get("/mining-rigs/{id}", h.GetRig)
			r.Patch("/mining-rigs/{id}", h.UpdateRig)
			r.Delete("/mining-rigs/{id}", h.DeleteRig)

			r.Get("/portfolio", h.ListPortfolio)
			r.Post("/portfolio", h.SetPortfolio)

			r.Get("/transactions", h.ListTransactions)

			r.Get("/exchanges", h.ListExchanges)
			r.Post("/exchanges", h.UpsertExchange)

			r.Get("/payments", h.ListPayments)
			r.Post("/payments", h.CreatePayment)
			r.Patch("/payments/{id}", h.UpdatePaymentStatus)
			r.Get("/payments/{id}/history", h.PaymentHistory)
		})
	})
	return router
}
