package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/seftonlabs/loanledger/internal/document"
	"github.com/seftonlabs/loanledger/internal/ingestion"
	"github.com/seftonlabs/loanledger/internal/report"
	"github.com/seftonlabs/loanledger/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	txnRepo   *repository.TransactionRepo
	ingestSvc *ingestion.Service
	reportSvc *report.Service
	log       *logrus.Logger
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- UploadDocument ---

func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.ingestSvc.IngestDocument(document.NewTextSource(file))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- DeduplicateTransactions ---

func (h *Handlers) DeduplicateTransactions(w http.ResponseWriter, r *http.Request) {
	if err := h.txnRepo.Deduplicate(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.log.Info("deduplication pass complete")
	w.WriteHeader(http.StatusNoContent)
}

// --- ClassifyTiers ---

func (h *Handlers) ClassifyTiers(w http.ResponseWriter, r *http.Request) {
	if err := h.txnRepo.ClassifyTiers(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.log.Info("tier classification pass complete")
	w.WriteHeader(http.StatusNoContent)
}

// --- GetLoanSum ---

func (h *Handlers) GetLoanSum(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if !isoDate.MatchString(from) || !isoDate.MatchString(to) {
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	total, err := h.txnRepo.SumLoanAmount(from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// total stays nil when no rows fall in the range, which encodes as
	// JSON null rather than zero.
	writeJSON(w, http.StatusOK, map[string]any{"total": total})
}

// --- GetBrokerMaxLoan ---

func (h *Handlers) GetBrokerMaxLoan(w http.ResponseWriter, r *http.Request) {
	broker := chi.URLParam(r, "broker")
	if broker == "" {
		writeError(w, http.StatusBadRequest, "broker is required")
		return
	}

	max, err := h.txnRepo.MaxLoanAmount(broker)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"max": max})
}

// --- GetBrokerReport ---

func (h *Handlers) GetBrokerReport(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	buckets, err := h.reportSvc.BrokerReport(period)
	if err != nil {
		if errors.Is(err, report.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"buckets": buckets,
	})
}

// --- GetLoanAmountReport ---

func (h *Handlers) GetLoanAmountReport(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reportSvc.LoanAmountsOverTime()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"totals": totals})
}

// --- GetTierReport ---

func (h *Handlers) GetTierReport(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reportSvc.TierReport()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}
