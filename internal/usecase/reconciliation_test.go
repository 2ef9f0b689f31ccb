package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-reconciliation/internal/domain"
	"invoice-reconciliation/internal/rules"
	"invoice-reconciliation/internal/usecase"
	mock_usecase "invoice-reconciliation/internal/usecase/mocks"
)

// record builds a fully-normalized invoice record the way the gateway
// does. An empty amount string means absent.
func record(origin domain.Origin, token, number, vendor, amount string) domain.InvoiceRecord {
	rec := domain.InvoiceRecord{
		Origin:           origin,
		InvoiceNumber:    number,
		NormalizedNumber: rules.NormalizeIdentifier(number),
		Vendor:           vendor,
		NormalizedVendor: rules.NormalizeName(vendor),
		Currency:         "EUR",
		ProvenanceToken:  token,
	}
	if amount != "" {
		rec.Amount = decimal.NullDecimal{Decimal: decimal.RequireFromString(amount), Valid: true}
	}
	return rec
}

func ledgerRecord(token, number, vendor, amount string) domain.InvoiceRecord {
	return record(domain.OriginLedger, token, number, vendor, amount)
}

func documentRecord(token, number, vendor, amount string) domain.InvoiceRecord {
	return record(domain.OriginDocument, token, number, vendor, amount)
}

func newUseCase() *usecase.ReconciliationUseCase {
	return usecase.NewReconciliationUseCase(nil, usecase.DefaultConfig())
}

func TestReconciliationUseCase_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := []domain.InvoiceRecord{ledgerRecord("ledger.csv:2", "0063266046", "VIVACOM", "903.42")}
	documents := []domain.InvoiceRecord{documentRecord("scan_001.pdf#0", "0063266046", "VIVACOM", "903.42")}

	tests := []struct {
		name          string
		ledgerErr     error
		documentsErr  error
		wantErr       bool
		wantMatched   int
		wantMatchRate float64
	}{
		{
			name:          "successful reconciliation",
			wantMatched:   1,
			wantMatchRate: 100,
		},
		{
			name:      "ledger repository error",
			ledgerErr: errors.New("file not found"),
			wantErr:   true,
		},
		{
			name:         "documents repository error",
			documentsErr: errors.New("decode failure"),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_usecase.NewMockInvoiceRepository(ctrl)
			if tt.ledgerErr != nil {
				repo.EXPECT().GetLedgerInvoices(gomock.Any(), "ledger.csv").Return(nil, tt.ledgerErr)
			} else {
				repo.EXPECT().GetLedgerInvoices(gomock.Any(), "ledger.csv").Return(ledger, nil)
				if tt.documentsErr != nil {
					repo.EXPECT().GetDocumentInvoices(gomock.Any(), []string{"documents.json"}).Return(nil, tt.documentsErr)
				} else {
					repo.EXPECT().GetDocumentInvoices(gomock.Any(), []string{"documents.json"}).Return(documents, nil)
				}
			}

			uc := usecase.NewReconciliationUseCase(repo, usecase.DefaultConfig())
			result, err := uc.Reconcile(context.Background(), "ledger.csv", []string{"documents.json"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result.Matched, tt.wantMatched)
			assert.Equal(t, tt.wantMatchRate, result.Summary.MatchRate)
		})
	}
}

func TestReconcileRecords_PerfectMatch(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "0063266046", "VIVACOM", "903.42")},
		[]domain.InvoiceRecord{documentRecord("b1", "0063266046", "VIVACOM", "903.42")},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Empty(t, result.Matched[0].Discrepancies)
	assert.Equal(t, 100.0, result.Matched[0].Confidence)
	assert.Equal(t, 100.0, result.Summary.MatchRate)
	assert.Empty(t, result.Mismatched)
	assert.Empty(t, result.UnmatchedLedger)
	assert.Empty(t, result.UnmatchedDocuments)
}

func TestReconcileRecords_SignFlipIsMatched(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV1", "ACME", "100.0")},
		[]domain.InvoiceRecord{documentRecord("b1", "INV1", "ACME", "-100.0")},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Empty(t, result.Mismatched)

	// The sign-flipped amount is reported, but with a zero difference and
	// never as material.
	require.Len(t, result.Matched[0].Discrepancies, 1)
	disc := result.Matched[0].Discrepancies[0]
	assert.Equal(t, "amount", disc.Field)
	assert.Equal(t, domain.SeverityInformational, disc.Severity)
	require.NotNil(t, disc.Difference)
	assert.False(t, disc.Difference.Incomparable)
	assert.True(t, disc.Difference.Value.IsZero())
}

func TestReconcileRecords_UnmatchedLedger(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV2", "ACME", "100.0")},
		nil,
	)

	require.NoError(t, err)
	require.Len(t, result.UnmatchedLedger, 1)
	assert.Equal(t, "INV2", result.UnmatchedLedger[0].InvoiceNumber)
	assert.Equal(t, 0.0, result.Summary.MatchRate)
}

func TestReconcileRecords_EmptyLedgerMatchRate(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(nil, []domain.InvoiceRecord{documentRecord("b1", "INV1", "ACME", "10.0")})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Summary.MatchRate)
	assert.Len(t, result.UnmatchedDocuments, 1)
}

func TestReconcileRecords_GreedyClaimPrefersHigherConfidence(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV3", "ACME", "50.0")},
		[]domain.InvoiceRecord{
			documentRecord("b1", "INV3", "ACME", "500.0"),
			documentRecord("b2", "INV3", "ACME", "50.0"),
		},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "b2", result.Matched[0].Document.ProvenanceToken)
	require.Len(t, result.UnmatchedDocuments, 1)
	assert.Equal(t, "b1", result.UnmatchedDocuments[0].ProvenanceToken)
}

func TestReconcileRecords_TieBreaksOnFirstAppearance(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV7", "ACME", "100.0")},
		[]domain.InvoiceRecord{
			documentRecord("b1", "INV7", "ACME", "100.0"),
			documentRecord("b2", "INV7", "ACME", "100.0"),
		},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "b1", result.Matched[0].Document.ProvenanceToken)
	require.Len(t, result.UnmatchedDocuments, 1)
	assert.Equal(t, "b2", result.UnmatchedDocuments[0].ProvenanceToken)
}

func TestReconcileRecords_AmountMismatchIsMaterial(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV5", "ACME", "100.00")},
		[]domain.InvoiceRecord{documentRecord("b1", "INV5", "ACME", "250.50")},
	)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	require.Len(t, result.Mismatched, 1)

	require.Len(t, result.Mismatched[0].Discrepancies, 1)
	disc := result.Mismatched[0].Discrepancies[0]
	assert.Equal(t, "amount", disc.Field)
	assert.Equal(t, domain.SeverityMaterial, disc.Severity)
	require.NotNil(t, disc.Difference)
	assert.False(t, disc.Difference.Incomparable)
	assert.True(t, disc.Difference.Value.Equal(decimal.RequireFromString("150.5")), "got %s", disc.Difference.Value)
}

func TestReconcileRecords_AbsentAmountIsIncomparable(t *testing.T) {
	uc := newUseCase()

	// Identifier and name still carry the claim (50 + 20 points), but the
	// missing amount must surface as a material incomparable discrepancy,
	// never as an unset field.
	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV6", "ACME", "100.00")},
		[]domain.InvoiceRecord{documentRecord("b1", "INV6", "ACME", "")},
	)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	require.Len(t, result.Mismatched, 1)
	assert.Equal(t, 70.0, result.Mismatched[0].Confidence)

	require.Len(t, result.Mismatched[0].Discrepancies, 1)
	disc := result.Mismatched[0].Discrepancies[0]
	assert.Equal(t, domain.SeverityMaterial, disc.Severity)
	require.NotNil(t, disc.Difference)
	assert.True(t, disc.Difference.Incomparable)
}

func TestReconcileRecords_BucketFallbackOnMissingVendor(t *testing.T) {
	uc := newUseCase()

	// No document bucket exists for ACME, so the ledger record is compared
	// against the full document collection and still finds its identifier.
	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV9", "ACME", "75.00")},
		[]domain.InvoiceRecord{documentRecord("b1", "INV9", "GLOBEX", "75.00")},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "b1", result.Matched[0].Document.ProvenanceToken)

	// The vendor disagreement is informational only.
	require.Len(t, result.Matched[0].Discrepancies, 1)
	assert.Equal(t, "vendor", result.Matched[0].Discrepancies[0].Field)
	assert.Equal(t, domain.SeverityInformational, result.Matched[0].Discrepancies[0].Severity)
}

func TestReconcileRecords_BucketBoundsCandidates(t *testing.T) {
	uc := newUseCase()

	// A bucket exists for ACME, so the GLOBEX document with the matching
	// identifier is never considered.
	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "INV1", "ACME", "100.00")},
		[]domain.InvoiceRecord{
			documentRecord("b1", "OTHER", "ACME", "100.00"),
			documentRecord("b2", "INV1", "GLOBEX", "100.00"),
		},
	)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "b1", result.Matched[0].Document.ProvenanceToken)
	require.Len(t, result.UnmatchedDocuments, 1)
	assert.Equal(t, "b2", result.UnmatchedDocuments[0].ProvenanceToken)
}

func TestReconcileRecordsWithBuckets_CallerSupplied(t *testing.T) {
	uc := newUseCase()

	documents := []domain.InvoiceRecord{
		documentRecord("b1", "INV1", "ACME", "100.00"),
		documentRecord("b2", "INV2", "GLOBEX", "200.00"),
	}

	result, err := uc.ReconcileRecordsWithBuckets(
		[]domain.InvoiceRecord{
			ledgerRecord("a1", "INV1", "ACME", "100.00"),
			ledgerRecord("a2", "INV2", "GLOBEX", "200.00"),
		},
		documents,
		usecase.BucketByVendor(documents),
	)

	require.NoError(t, err)
	assert.Len(t, result.Matched, 2)
	assert.Empty(t, result.UnmatchedLedger)
	assert.Empty(t, result.UnmatchedDocuments)
}

func TestReconcileRecords_EveryRecordInExactlyOnePartition(t *testing.T) {
	uc := newUseCase()

	ledger := []domain.InvoiceRecord{
		ledgerRecord("a1", "INV1", "ACME", "100.00"),
		ledgerRecord("a2", "INV2", "GLOBEX", "200.00"),
		ledgerRecord("a3", "INV3", "VIVACOM", "300.00"),
		ledgerRecord("a4", "", "", ""),
	}
	documents := []domain.InvoiceRecord{
		documentRecord("b1", "INV1", "ACME", "100.00"),
		documentRecord("b2", "INV2", "GLOBEX", "999.00"),
		documentRecord("b3", "INV4", "INITECH", "50.00"),
	}

	result, err := uc.ReconcileRecords(ledger, documents)
	require.NoError(t, err)

	ledgerSeen := make(map[string]int)
	for _, pair := range result.Matched {
		ledgerSeen[pair.Ledger.ProvenanceToken]++
	}
	for _, pair := range result.Mismatched {
		ledgerSeen[pair.Ledger.ProvenanceToken]++
	}
	for _, rec := range result.UnmatchedLedger {
		ledgerSeen[rec.ProvenanceToken]++
	}
	for _, rec := range ledger {
		assert.Equal(t, 1, ledgerSeen[rec.ProvenanceToken], "ledger token %s", rec.ProvenanceToken)
	}

	documentsSeen := make(map[string]int)
	for _, pair := range result.Matched {
		documentsSeen[pair.Document.ProvenanceToken]++
	}
	for _, pair := range result.Mismatched {
		documentsSeen[pair.Document.ProvenanceToken]++
	}
	for _, rec := range result.UnmatchedDocuments {
		documentsSeen[rec.ProvenanceToken]++
	}
	for _, rec := range documents {
		assert.Equal(t, 1, documentsSeen[rec.ProvenanceToken], "document token %s", rec.ProvenanceToken)
	}

	summary := result.Summary
	assert.Equal(t, len(ledger), summary.Matched+summary.Mismatched+summary.UnmatchedLedger)
	assert.Equal(t, len(documents), summary.Matched+summary.Mismatched+summary.UnmatchedDocuments)
	assert.GreaterOrEqual(t, summary.MatchRate, 0.0)
	assert.LessOrEqual(t, summary.MatchRate, 100.0)
}

func TestReconcileRecords_EmptyIdentifiersNeverMatch(t *testing.T) {
	uc := newUseCase()

	// Both identifiers normalize to empty; with inconsistent amounts there
	// is no evidence left, so neither record may be claimed.
	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{ledgerRecord("a1", "###", "ACME", "100.00")},
		[]domain.InvoiceRecord{documentRecord("b1", "INV", "ACME", "999.00")},
	)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Mismatched)
	assert.Len(t, result.UnmatchedLedger, 1)
	assert.Len(t, result.UnmatchedDocuments, 1)
}

func TestReconcileRecords_DuplicateTokenRejected(t *testing.T) {
	uc := newUseCase()

	result, err := uc.ReconcileRecords(
		[]domain.InvoiceRecord{
			ledgerRecord("a1", "INV1", "ACME", "100.00"),
			ledgerRecord("a1", "INV2", "GLOBEX", "200.00"),
		},
		nil,
	)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "duplicate provenance token")
}

func TestReconcileRecords_InputsNotMutated(t *testing.T) {
	uc := newUseCase()

	ledger := []domain.InvoiceRecord{ledgerRecord("a1", "INV1", "ACME", "100.00")}
	documents := []domain.InvoiceRecord{documentRecord("b1", "INV1", "ACME", "100.00")}
	ledgerCopy := ledger[0]
	documentCopy := documents[0]

	_, err := uc.ReconcileRecords(ledger, documents)
	require.NoError(t, err)

	assert.Equal(t, ledgerCopy, ledger[0])
	assert.Equal(t, documentCopy, documents[0])
}
