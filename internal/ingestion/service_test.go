package ingestion

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seftonlabs/loanledger/internal/document"
	"github.com/seftonlabs/loanledger/internal/repository"
)

const settlementPage = `App ID: A100
Xref: %s
Settlement Date: 2024-03-01
Broker: acme
Sub Broker: sub1
Borrower Name: Jane Doe
Description: Home loan
Total Loan Amount: 120000.00
Commission Rate: 0.65
Upfront: 780.00
Upfront Incl GST: 858.00`

func newTestService(t *testing.T) (*Service, *repository.TransactionRepo) {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := repository.NewTransactionRepo(db)
	return NewService(repo, log), repo
}

func page(xref string) string {
	return strings.Replace(settlementPage, "%s", xref, 1)
}

func TestIngestDocument(t *testing.T) {
	svc, repo := newTestService(t)

	doc := "Commission Statement Cover\f" + page("X1") + "\f" + page("X2") + "\f"
	result, err := svc.IngestDocument(document.NewTextSource(strings.NewReader(doc)))
	require.NoError(t, err)

	assert.Equal(t, 3, result.PagesScanned)
	assert.Equal(t, 2, result.RecordsExtracted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestDocument_Reingest(t *testing.T) {
	svc, repo := newTestService(t)

	doc := page("X1")
	_, err := svc.IngestDocument(document.NewTextSource(strings.NewReader(doc)))
	require.NoError(t, err)

	// Uploading the same document again is silently absorbed by the store's
	// uniqueness rule; the extraction count is still reported.
	result, err := svc.IngestDocument(document.NewTextSource(strings.NewReader(doc)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsExtracted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestDocument_NoTransactionPages(t *testing.T) {
	svc, repo := newTestService(t)

	doc := "Cover page\fTerms and conditions\f"
	result, err := svc.IngestDocument(document.NewTextSource(strings.NewReader(doc)))
	require.NoError(t, err)

	assert.Equal(t, 2, result.PagesScanned)
	assert.Equal(t, 0, result.RecordsExtracted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
