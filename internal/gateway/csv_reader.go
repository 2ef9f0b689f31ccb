package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoice-reconciliation/internal/domain"
	"invoice-reconciliation/internal/rules"
)

// FileInvoiceRepository implements the InvoiceRepository interface over a
// ledger CSV export and document-extraction JSON datasets. It owns record
// construction: normalization happens here, once, so the engine only ever
// sees fully-built records.
type FileInvoiceRepository struct {
	log zerolog.Logger
}

// NewFileInvoiceRepository creates a new repository instance.
func NewFileInvoiceRepository(log zerolog.Logger) *FileInvoiceRepository {
	return &FileInvoiceRepository{log: log}
}

// GetLedgerInvoices reads and parses the ledger export CSV file. Expected
// columns: invoice_number, vendor, amount, currency, invoice_date. An empty
// amount cell yields a record with an absent amount; a malformed one is a
// validation error.
func (r *FileInvoiceRepository) GetLedgerInvoices(ctx context.Context, path string) ([]domain.InvoiceRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger export file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	source := filepath.Base(path)
	var records []domain.InvoiceRecord
	row := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		// csv.Reader only enforces consistency with the header, so a
		// wrong-schema export still delivers short rows.
		if len(fields) < 5 {
			return nil, &ValidationError{Source: source, Record: row, Field: "columns", Err: fmt.Errorf("expected 5 columns, got %d", len(fields))}
		}

		amount, err := parseOptionalAmount(fields[2])
		if err != nil {
			return nil, &ValidationError{Source: source, Record: row, Field: "amount", Err: err}
		}

		records = append(records, newRecord(
			domain.OriginLedger,
			fields[0],
			fields[1],
			amount,
			fields[3],
			fields[4],
			fmt.Sprintf("%s:%d", source, row),
		))
	}

	r.log.Info().Str("file", source).Int("records", len(records)).Msg("loaded ledger invoices")
	return records, nil
}

// parseOptionalAmount converts a CSV cell to an optional decimal. Blank
// means absent, anything else must parse exactly.
func parseOptionalAmount(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: value, Valid: true}, nil
}

func newRecord(origin domain.Origin, number, vendor string, amount decimal.NullDecimal, currency, date, token string) domain.InvoiceRecord {
	return domain.InvoiceRecord{
		Origin:           origin,
		InvoiceNumber:    number,
		NormalizedNumber: rules.NormalizeIdentifier(number),
		Vendor:           vendor,
		NormalizedVendor: rules.NormalizeName(vendor),
		Amount:           amount,
		Currency:         currency,
		InvoiceDate:      date,
		ProvenanceToken:  token,
	}
}
