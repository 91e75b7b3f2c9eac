package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sarraf/treasury/internal/adapter/http/handler"
	"github.com/sarraf/treasury/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BankHandler    *handler.BankHandler
	PartyHandler   *handler.PartyHandler
	TradeHandler   *handler.TradeHandler
	RecordsHandler *handler.RecordsHandler
	GroupHandler   *handler.GroupHandler
	PendingHandler *handler.PendingHandler
	ReportHandler  *handler.ReportHandler
	HealthHandler  *handler.HealthHandler

	LoggingMiddleware *middleware.LoggingMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware
	MetricsEndpoint   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Wrap)
	}
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Wrap)
	}
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsEndpoint != nil {
		r.Handle("/metrics", cfg.MetricsEndpoint)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Banks
		r.Route("/banks", func(r chi.Router) {
			r.Post("/", cfg.BankHandler.Create)
			r.Get("/", cfg.BankHandler.List)
			r.Put("/{id}", cfg.BankHandler.Update)
			r.Delete("/{id}", cfg.BankHandler.Delete)
			r.Post("/transfer", cfg.BankHandler.Transfer)
		})

		// Customers and their debts
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.CreateCustomer)
			r.Get("/", cfg.PartyHandler.ListCustomers)
			r.Get("/{id}", cfg.PartyHandler.GetCustomer)
			r.Post("/{id}/archive", cfg.PartyHandler.ArchiveCustomer)
			r.Post("/{id}/debts", cfg.PartyHandler.CreateDebt)
			r.Post("/{id}/debts/pay", cfg.PartyHandler.PayDebt)
			r.Post("/{id}/debts/merge", cfg.PartyHandler.MergeDebts)
			r.Post("/{id}/debts/convert", cfg.PartyHandler.ConvertDebt)
		})

		// Receivables
		r.Route("/receivables", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.CreateReceivable)
			r.Get("/", cfg.PartyHandler.ListReceivables)
			r.Post("/{id}/pay", cfg.PartyHandler.PayReceivable)
			r.Post("/{id}/archive", cfg.PartyHandler.ArchiveReceivable)
			r.Post("/merge", cfg.PartyHandler.MergeReceivables)
		})

		// Trades
		r.Route("/trades", func(r chi.Router) {
			r.Post("/buy-usd", cfg.TradeHandler.BuyUSD)
			r.Post("/sell-usd", cfg.TradeHandler.SellUSD)
			r.Post("/buy-other", cfg.TradeHandler.BuyOther)
			r.Post("/sell-other", cfg.TradeHandler.SellOther)
			r.Post("/adjust", cfg.TradeHandler.Adjust)
			r.Post("/usd-exchange", cfg.TradeHandler.USDExchange)
			r.Post("/eur-exchange", cfg.TradeHandler.EURExchange)
			r.Post("/bank-to-cash", cfg.TradeHandler.BankToCash)
			r.Post("/cash-to-bank", cfg.TradeHandler.CashToBank)
		})

		// POS, dollar cards, operating costs
		r.Post("/pos", cfg.RecordsHandler.PosSettlement)
		r.Route("/dollar-cards", func(r chi.Router) {
			r.Post("/", cfg.RecordsHandler.OpenDollarCard)
			r.Get("/", cfg.RecordsHandler.ListDollarCards)
			r.Post("/{id}/payments", cfg.RecordsHandler.DollarCardPayment)
			r.Post("/{id}/complete", cfg.RecordsHandler.DollarCardComplete)
		})
		r.Post("/costs", cfg.RecordsHandler.CreateOperatingCost)

		// Transaction groups
		r.Route("/groups", func(r chi.Router) {
			r.Get("/{id}", cfg.GroupHandler.Get)
			r.Delete("/{id}", cfg.GroupHandler.Delete)
			r.Post("/{id}/restore", cfg.GroupHandler.Restore)
		})

		// Pending trades
		r.Route("/pending", func(r chi.Router) {
			r.Post("/", cfg.PendingHandler.Stage)
			r.Get("/", cfg.PendingHandler.List)
			r.Post("/{id}/confirm", cfg.PendingHandler.Confirm)
			r.Delete("/{id}", cfg.PendingHandler.Discard)
		})

		// Reports and snapshots
		r.Get("/balances", cfg.ReportHandler.Balances)
		r.Get("/balances/{asset}", cfg.ReportHandler.Balance)
		r.Get("/totals/debts", cfg.ReportHandler.TotalDebts)
		r.Get("/totals/receivables", cfg.ReportHandler.TotalReceivables)
		r.Get("/transactions", cfg.ReportHandler.Transactions)
		r.Get("/export", cfg.ReportHandler.Export)
		r.Post("/import", cfg.ReportHandler.Import)
		r.Post("/purge-archived", cfg.ReportHandler.PurgeArchived)
	})

	return r
}
