package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/seftonlabs/loanledger/internal/ingestion"
	"github.com/seftonlabs/loanledger/internal/report"
	"github.com/seftonlabs/loanledger/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	txnRepo *repository.TransactionRepo,
	ingestSvc *ingestion.Service,
	reportSvc *report.Service,
	log *logrus.Logger,
) http.Handler {
	h := &Handlers{
		txnRepo:   txnRepo,
		ingestSvc: ingestSvc,
		reportSvc: reportSvc,
		log:       log,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Ingestion.
		r.Post("/documents", h.UploadDocument)

		// Maintenance passes.
		r.Post("/transactions/deduplicate", h.DeduplicateTransactions)
		r.Post("/transactions/classify-tiers", h.ClassifyTiers)

		// Aggregates.
		r.Get("/transactions/loan-sum", h.GetLoanSum)
		r.Get("/brokers/{broker}/max-loan", h.GetBrokerMaxLoan)

		// Reports.
		r.Get("/reports/brokers", h.GetBrokerReport)
		r.Get("/reports/loan-amounts", h.GetLoanAmountReport)
		r.Get("/reports/tiers", h.GetTierReport)
	})

	return r
}
