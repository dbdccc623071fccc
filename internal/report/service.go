// Package report runs read-only aggregations over the transaction store.
// Reports are pure functions of the store at call time; nothing here
// mutates rows or caches results.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/seftonlabs/loanledger/internal/repository"
)

// ErrInvalidPeriod marks a broker report request with an unknown period.
// It is caught before any query executes, so callers can distinguish bad
// input from storage failures.
var ErrInvalidPeriod = errors.New("invalid period: choose 'daily', 'weekly', or 'monthly'")

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Service generates reports against the transaction repository.
type Service struct {
	txnRepo *repository.TransactionRepo
	now     func() time.Time
}

func NewService(txnRepo *repository.TransactionRepo) *Service {
	return &Service{txnRepo: txnRepo, now: time.Now}
}

// BrokerReport sums settled loan volume per broker per time bucket.
// Daily covers all history; weekly and monthly are restricted to rows on
// or after a calendar cutoff (seven days back, and the last day of the
// previous month, respectively).
func (s *Service) BrokerReport(period string) ([]repository.BrokerBucket, error) {
	switch period {
	case PeriodDaily:
		return s.txnRepo.BrokerTotalsDaily()
	case PeriodWeekly:
		cutoff := s.now().AddDate(0, 0, -7).Format("2006-01-02")
		return s.txnRepo.BrokerTotalsWeekly(cutoff)
	case PeriodMonthly:
		return s.txnRepo.BrokerTotalsMonthly(s.lastDayOfPreviousMonth())
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrInvalidPeriod, period)
	}
}

// LoanAmountsOverTime sums loan volume per settlement date across all
// history, oldest first.
func (s *Service) LoanAmountsOverTime() ([]repository.DateTotal, error) {
	return s.txnRepo.LoanTotalsByDate()
}

// TierReport counts rows per settlement date and tier level as currently
// stored. It does not trigger classification; run the tier pass first for
// up-to-date assignments.
func (s *Service) TierReport() ([]repository.TierCount, error) {
	return s.txnRepo.TierCountsByDate()
}

func (s *Service) lastDayOfPreviousMonth() string {
	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, 0, -1).Format("2006-01-02")
}
