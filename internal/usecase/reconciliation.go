package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"invoice-reconciliation/internal/domain"
	"invoice-reconciliation/internal/rules"
)

// Config holds the construction-time tuning knobs of the engine.
type Config struct {
	// Tolerance is the absolute amount tolerance in currency units.
	Tolerance decimal.Decimal
	// MinConfidence is the minimum score for a candidate to be claimable.
	MinConfidence float64
	// NameSimilarityThreshold is the minimum name similarity that, together
	// with consistent amounts, can substitute for an identifier match.
	NameSimilarityThreshold float64
	// Weights distributes the confidence points across the criteria.
	Weights rules.Weights
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:               rules.DefaultTolerance,
		MinConfidence:           50,
		NameSimilarityThreshold: 0.5,
		Weights:                 rules.DefaultWeights(),
	}
}

// ReconciliationUseCase orchestrates the reconciliation process. It is a
// pure, synchronous computation over immutable inputs; independent runs are
// safe to execute concurrently because each owns its working set.
type ReconciliationUseCase struct {
	repo       InvoiceRepository
	amounts    *rules.AmountValidator
	confidence *rules.ConfidenceCalculator
}

// NewReconciliationUseCase creates a new instance of the usecase with the
// rule components built from cfg.
func NewReconciliationUseCase(repo InvoiceRepository, cfg Config) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		repo:       repo,
		amounts:    rules.NewAmountValidator(cfg.Tolerance),
		confidence: rules.NewConfidenceCalculator(cfg.Weights, cfg.MinConfidence, cfg.NameSimilarityThreshold),
	}
}

// Reconcile loads both collections through the repository and classifies
// them. Input loading is the only step that can fail; the classification
// itself never does once the inputs validated.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, ledgerPath string, documentPaths []string) (*domain.ReconciliationResult, error) {
	ledger, err := uc.repo.GetLedgerInvoices(ctx, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("could not get ledger invoices: %w", err)
	}

	documents, err := uc.repo.GetDocumentInvoices(ctx, documentPaths)
	if err != nil {
		return nil, fmt.Errorf("could not get document invoices: %w", err)
	}

	return uc.ReconcileRecords(ledger, documents)
}

// ReconcileRecords classifies two in-memory collections, bucketing the
// document side by normalized vendor to bound candidate generation.
func (uc *ReconciliationUseCase) ReconcileRecords(ledger, documents []domain.InvoiceRecord) (*domain.ReconciliationResult, error) {
	return uc.ReconcileRecordsWithBuckets(ledger, documents, nil)
}

// candidate is a surviving pairing awaiting the claim walk.
type candidate struct {
	ledger     domain.InvoiceRecord
	document   domain.InvoiceRecord
	confidence float64
}

// ReconcileRecordsWithBuckets is ReconcileRecords with caller-supplied
// vendor buckets. The buckets must partition documents by normalized vendor
// name; passing nil buckets lets the engine group them itself. A ledger
// record whose vendor has no bucket is compared against the full document
// collection.
//
// The assignment is a deterministic greedy walk: every acceptable candidate
// pair across the whole run is sorted by confidence descending (ties keep
// generation order, i.e. first appearance of the ledger record) and claimed
// only if neither side has been claimed before. Claims are keyed by
// provenance token, so duplicate tokens are rejected up front.
func (uc *ReconciliationUseCase) ReconcileRecordsWithBuckets(ledger, documents []domain.InvoiceRecord, buckets map[string][]domain.InvoiceRecord) (*domain.ReconciliationResult, error) {
	if err := validateTokens(ledger); err != nil {
		return nil, err
	}
	if err := validateTokens(documents); err != nil {
		return nil, err
	}

	if buckets == nil {
		buckets = BucketByVendor(documents)
	}

	// Step 1: generate and score candidates, keeping only acceptable ones.
	var candidates []candidate
	for _, led := range ledger {
		pool := documents
		if led.NormalizedVendor != "" {
			if bucket, ok := buckets[led.NormalizedVendor]; ok {
				pool = bucket
			}
		}
		for _, doc := range pool {
			idMatch, consistency, similarity := uc.evidence(led, doc)
			score := uc.confidence.Confidence(idMatch, consistency, similarity)
			if !uc.confidence.IsAcceptable(score, idMatch, consistency, similarity) {
				continue
			}
			candidates = append(candidates, candidate{ledger: led, document: doc, confidence: score})
		}
	}

	// Step 2: global sort by confidence, stable so ties keep ledger order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	result := &domain.ReconciliationResult{
		Matched:            make([]domain.CandidatePair, 0),
		Mismatched:         make([]domain.CandidatePair, 0),
		UnmatchedLedger:    make([]domain.InvoiceRecord, 0),
		UnmatchedDocuments: make([]domain.InvoiceRecord, 0),
	}

	// Step 3: greedy claim walk.
	claimedLedger := make(map[string]bool, len(ledger))
	claimedDocuments := make(map[string]bool, len(documents))
	for _, cand := range candidates {
		if claimedLedger[cand.ledger.ProvenanceToken] || claimedDocuments[cand.document.ProvenanceToken] {
			continue
		}
		claimedLedger[cand.ledger.ProvenanceToken] = true
		claimedDocuments[cand.document.ProvenanceToken] = true

		pair := domain.CandidatePair{
			Ledger:        cand.ledger,
			Document:      cand.document,
			Confidence:    cand.confidence,
			Discrepancies: uc.findDiscrepancies(cand.ledger, cand.document),
		}
		if pair.HasMaterialDiscrepancy() {
			result.Mismatched = append(result.Mismatched, pair)
		} else {
			result.Matched = append(result.Matched, pair)
		}
	}

	// Step 4: everything never claimed is unmatched.
	for _, led := range ledger {
		if !claimedLedger[led.ProvenanceToken] {
			result.UnmatchedLedger = append(result.UnmatchedLedger, led)
		}
	}
	for _, doc := range documents {
		if !claimedDocuments[doc.ProvenanceToken] {
			result.UnmatchedDocuments = append(result.UnmatchedDocuments, doc)
		}
	}

	ledgerTotal := len(ledger)
	if ledgerTotal < 1 {
		ledgerTotal = 1
	}
	result.Summary = domain.Summary{
		TotalLedgerProcessed:    len(ledger),
		TotalDocumentsProcessed: len(documents),
		Matched:                 len(result.Matched),
		Mismatched:              len(result.Mismatched),
		UnmatchedLedger:         len(result.UnmatchedLedger),
		UnmatchedDocuments:      len(result.UnmatchedDocuments),
		MatchRate:               100 * float64(len(result.Matched)) / float64(ledgerTotal),
	}
	return result, nil
}

// evidence gathers the three matching criteria for a pair. Empty normalized
// identifiers never count as a match.
func (uc *ReconciliationUseCase) evidence(led, doc domain.InvoiceRecord) (idMatch bool, consistency domain.AmountConsistency, similarity float64) {
	idMatch = led.NormalizedNumber != "" && led.NormalizedNumber == doc.NormalizedNumber
	consistency = uc.amounts.Consistency(led.Amount, doc.Amount)
	similarity = rules.NameSimilarity(led.NormalizedVendor, doc.NormalizedVendor)
	return idMatch, consistency, similarity
}

// findDiscrepancies records the per-field disagreements of a claimed pair.
// Amount discrepancies are material when the difference is incomparable or
// non-zero; a sign-flipped but consistent amount is reported with a zero
// difference at informational severity. Name discrepancies are always
// informational.
func (uc *ReconciliationUseCase) findDiscrepancies(led, doc domain.InvoiceRecord) []domain.Discrepancy {
	discrepancies := make([]domain.Discrepancy, 0)

	switch uc.amounts.Consistency(led.Amount, doc.Amount) {
	case domain.AmountConsistent:
		if led.Amount.Decimal.Cmp(doc.Amount.Decimal) != 0 {
			diff := domain.AmountDifference{Value: decimal.Zero}
			discrepancies = append(discrepancies, domain.Discrepancy{
				Field:         "amount",
				LedgerValue:   formatAmount(led.Amount),
				DocumentValue: formatAmount(doc.Amount),
				Severity:      domain.SeverityInformational,
				Difference:    &diff,
			})
		}
	default:
		diff := uc.amounts.Difference(led.Amount, doc.Amount)
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:         "amount",
			LedgerValue:   formatAmount(led.Amount),
			DocumentValue: formatAmount(doc.Amount),
			Severity:      domain.SeverityMaterial,
			Difference:    &diff,
		})
	}

	if led.NormalizedVendor != doc.NormalizedVendor {
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:         "vendor",
			LedgerValue:   led.Vendor,
			DocumentValue: doc.Vendor,
			Severity:      domain.SeverityInformational,
		})
	}

	return discrepancies
}

// BucketByVendor groups records by normalized vendor name, preserving
// input order within each bucket. Records with an empty normalized vendor
// are left out; they are only reachable through the full-collection
// fallback.
func BucketByVendor(records []domain.InvoiceRecord) map[string][]domain.InvoiceRecord {
	buckets := make(map[string][]domain.InvoiceRecord)
	for _, rec := range records {
		if rec.NormalizedVendor == "" {
			continue
		}
		buckets[rec.NormalizedVendor] = append(buckets[rec.NormalizedVendor], rec)
	}
	return buckets
}

func validateTokens(records []domain.InvoiceRecord) error {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.ProvenanceToken == "" {
			return fmt.Errorf("record %q from %s has no provenance token", rec.InvoiceNumber, rec.Origin)
		}
		if seen[rec.ProvenanceToken] {
			return fmt.Errorf("duplicate provenance token %q in %s records", rec.ProvenanceToken, rec.Origin)
		}
		seen[rec.ProvenanceToken] = true
	}
	return nil
}

func formatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return amount.Decimal.String()
}
