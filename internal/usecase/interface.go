package usecase

import (
	"context"

	"invoice-reconciliation/internal/domain"
)

// InvoiceRepository defines the interface for fetching invoice records.
// The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go InvoiceRepository
type InvoiceRepository interface {
	GetLedgerInvoices(ctx context.Context, path string) ([]domain.InvoiceRecord, error)
	GetDocumentInvoices(ctx context.Context, paths []string) ([]domain.InvoiceRecord, error)
}
