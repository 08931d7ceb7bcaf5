package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

// Receipt datos de una venta finalizada listos para imprimir.
type Receipt struct {
	StoreName   string
	Sale        *entity.Sale
	Customer    *entity.Customer // nil = consumidor final
	CashierName string
}

// ReceiptUseCase genera el comprobante (PDF) de una venta. No modifica nada.
type ReceiptUseCase struct {
	storeName string
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	users     repository.UserRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	storeName string,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		storeName: storeName,
		sales:     sales,
		customers: customers,
		users:     users,
		generator: generator,
	}
}

// DownloadReceiptPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: get sale: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	r := &Receipt{StoreName: uc.storeName, Sale: sale}
	if sale.CustomerID != nil {
		c, err := uc.customers.GetByID(ctx, *sale.CustomerID)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: get customer: %w", err)
		}
		r.Customer = c
	}
	if u, err := uc.users.GetByID(ctx, sale.UserID); err == nil && u != nil {
		r.CashierName = u.Name
	}

	pdf, err := uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generate: %w", err)
	}
	return pdf, ReceiptFilename(sale), nil
}

// ReceiptFilename boleta_B-001.pdf si tiene documento; venta_<id corto>.pdf si no.
func ReceiptFilename(s *entity.Sale) string {
	if s.DocumentType != nil && s.DocumentNumber != nil {
		return fmt.Sprintf("%s_%s.pdf", strings.ToLower(string(*s.DocumentType)), *s.DocumentNumber)
	}
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "venta_" + id + ".pdf"
}

