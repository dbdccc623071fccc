// Package ingestion drives the extract-and-persist pipeline for uploaded
// statement documents.
package ingestion

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/seftonlabs/loanledger/internal/document"
	"github.com/seftonlabs/loanledger/internal/extract"
	"github.com/seftonlabs/loanledger/internal/repository"
)

// Result summarises one ingested document. Duplicate xrefs are dropped
// silently by the store, so the result reports extraction counts only.
type Result struct {
	PagesScanned     int `json:"pages_scanned"`
	RecordsExtracted int `json:"records_extracted"`
}

// Service extracts transaction records from a document's pages and persists
// them as one batch.
type Service struct {
	txnRepo *repository.TransactionRepo
	log     *logrus.Logger
}

func NewService(txnRepo *repository.TransactionRepo, log *logrus.Logger) *Service {
	return &Service{txnRepo: txnRepo, log: log}
}

// IngestDocument reads pages from the source, extracts candidate records,
// and inserts them in a single store transaction. Pages that don't hold a
// complete set of fields are skipped without error; a storage failure
// aborts and rolls back the whole batch.
func (s *Service) IngestDocument(src document.Source) (*Result, error) {
	pages, err := src.Pages()
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	records := extract.Pages(pages)
	if len(records) > 0 {
		if err := s.txnRepo.Insert(records); err != nil {
			return nil, fmt.Errorf("insert records: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"pages":   len(pages),
		"records": len(records),
	}).Info("ingested document")

	return &Result{
		PagesScanned:     len(pages),
		RecordsExtracted: len(records),
	}, nil
}
